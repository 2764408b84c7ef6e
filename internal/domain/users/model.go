package users

import "time"

// Experience declarada en el onboarding.
// @Enum beginner, intermediate, expert
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceExpert       Experience = "expert"
)

func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceExpert:
		return true
	}
	return false
}

type User struct {
	ID    string
	Email string // normalizado a minúsculas
	Name  string

	PasswordHash string // bcrypt

	Experience          Experience
	Objectives          []string
	OnboardingCompleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
