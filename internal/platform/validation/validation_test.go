package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type colonyForm struct {
	Name string `json:"name" validate:"required"`
}

type signupForm struct {
	Name            string     `json:"name" validate:"min=2"`
	Email           string     `json:"email" validate:"required,email"`
	Password        string     `json:"password" validate:"min=6"`
	ConfirmPassword string     `json:"confirm_password" validate:"omitempty,eqfield=Password"`
	Experience      string     `json:"experience" validate:"omitempty,oneof=beginner intermediate expert"`
	Objectives      []string   `json:"objectives" validate:"omitempty,min=1"`
	FirstColony     colonyForm `json:"first_colony"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signupForm{
		Name:        "Ana",
		Email:       "ana@example.com",
		Password:    "secret1",
		FirstColony: colonyForm{Name: "Criadero"},
	})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(signupForm{
		Name:            "A",
		Email:           "not-an-email",
		Password:        "123",
		ConfirmPassword: "1234",
		Experience:      "guru",
	})
	require.Error(t, err)

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))

	assert.Equal(t, "must have at least 2 characters", fe["name"])
	assert.Equal(t, "must be a valid email", fe["email"])
	assert.Equal(t, "must have at least 6 characters", fe["password"])
	assert.Equal(t, "must match Password", fe["confirm_password"])
	assert.Equal(t, "must be one of: beginner intermediate expert", fe["experience"])
	assert.Equal(t, "is required", fe["first_colony.name"])
	assert.Contains(t, err.Error(), "validation failed")
}
