package users

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven los repositorios cuando no existe el usuario.
var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
}
