package colonies

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven los repositorios cuando no existe el id.
var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, c Colony) error
	GetByID(ctx context.Context, id string) (Colony, error)
	// ListByOwner devuelve en orden de inserción.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Colony, error)
	Update(ctx context.Context, c Colony) error
	// Delete borra la colonia y sus estanques.
	Delete(ctx context.Context, id string) error

	CreatePond(ctx context.Context, p Pond) error
	GetPond(ctx context.Context, id string) (Pond, error)
	ListPonds(ctx context.Context, colonyID string) ([]Pond, error)
}
