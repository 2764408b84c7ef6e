package breeding

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven los repositorios cuando no existe el id.
var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, e Event) error
	// Update no toca IsActive. Un evento inactivo da ErrNotFound.
	Update(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	// ListByOwner incluye inactivos y respeta el orden de inserción.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Event, error)
	// SoftDelete marca IsActive=false; nada más.
	SoftDelete(ctx context.Context, id string) error
}
