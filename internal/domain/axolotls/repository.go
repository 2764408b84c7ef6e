package axolotls

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven los repositorios cuando no existe el id.
var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, a Axolotl) error
	// Update no toca IsActive. Un registro inactivo da ErrNotFound.
	Update(ctx context.Context, a Axolotl) error
	GetByID(ctx context.Context, id string) (Axolotl, error)
	// ListByOwner incluye inactivos y respeta el orden de inserción.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Axolotl, error)
	// SoftDelete marca IsActive=false; nada más.
	SoftDelete(ctx context.Context, id string) error
}
