package colonies

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInUse        = errors.New("colony still has active axolotls or breeding events")
)

// InUseChecker cuenta registros activos que apuntan a una colonia.
type InUseChecker interface {
	CountActiveInColony(ctx context.Context, ownerUserID, colonyID string) (int, error)
}

type Service struct {
	repo     Repository
	now      func() time.Time
	checkers []InUseChecker
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Description string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Colony, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Colony{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Colony{}, ErrInvalidInput
	}

	now := s.now()
	c := Colony{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Colony{}, err
	}
	return c, nil
}

// GetForOwner devuelve la colonia solo si pertenece a ownerUserID.
// Una colonia ajena se reporta como ErrNotFound (no filtramos existencia).
func (s *Service) GetForOwner(ctx context.Context, ownerUserID, id string) (Colony, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Colony{}, err
	}
	if c.OwnerUserID != ownerUserID {
		return Colony{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Colony, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// UseCheckers registra los módulos que impiden borrar una colonia ocupada.
// Se llama al armar el router.
func (s *Service) UseCheckers(checkers ...InUseChecker) {
	s.checkers = append(s.checkers, checkers...)
}

// UpdateInput: nil = no tocar el campo.
type UpdateInput struct {
	Name        *string
	Description *string
}

func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (Colony, error) {
	cur, err := s.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		return Colony{}, err
	}

	next := cur
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
		if next.Name == "" {
			return Colony{}, ErrInvalidInput
		}
	}
	if in.Description != nil {
		next.Description = strings.TrimSpace(*in.Description)
	}
	next.UpdatedAt = s.now()
	if next.UpdatedAt.Before(cur.UpdatedAt) {
		next.UpdatedAt = cur.UpdatedAt
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return Colony{}, err
	}
	return next, nil
}

// Delete borra la colonia con sus estanques. Si algún ajolote o evento
// activo la referencia, devuelve ErrInUse y no toca nada.
func (s *Service) Delete(ctx context.Context, ownerUserID, id string) error {
	c, err := s.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		return err
	}
	for _, chk := range s.checkers {
		n, err := chk.CountActiveInColony(ctx, ownerUserID, c.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrInUse
		}
	}
	return s.repo.Delete(ctx, c.ID)
}

type PondInput struct {
	Name        string
	Capacity    int
	Temperature float64
}

func (s *Service) AddPond(ctx context.Context, ownerUserID, colonyID string, in PondInput) (Pond, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Pond{}, ErrInvalidInput
	}
	if in.Capacity < 1 {
		return Pond{}, ErrInvalidInput
	}
	if in.Temperature < MinTemperature || in.Temperature > MaxTemperature {
		return Pond{}, ErrInvalidInput
	}

	c, err := s.GetForOwner(ctx, ownerUserID, colonyID)
	if err != nil {
		return Pond{}, err
	}

	now := s.now()
	p := Pond{
		ID:          uuid.NewString(),
		ColonyID:    c.ID,
		Name:        strings.TrimSpace(in.Name),
		Capacity:    in.Capacity,
		Temperature: in.Temperature,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreatePond(ctx, p); err != nil {
		return Pond{}, err
	}
	return p, nil
}

func (s *Service) ListPonds(ctx context.Context, ownerUserID, colonyID string) ([]Pond, error) {
	c, err := s.GetForOwner(ctx, ownerUserID, colonyID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPonds(ctx, c.ID)
}

// PondBelongsTo confirma la jerarquía colonia -> estanque para el dueño.
// Colonia o estanque inexistentes => (false, nil).
func (s *Service) PondBelongsTo(ctx context.Context, ownerUserID, colonyID, pondID string) (bool, error) {
	if _, err := s.GetForOwner(ctx, ownerUserID, colonyID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	p, err := s.repo.GetPond(ctx, strings.TrimSpace(pondID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.ColonyID == colonyID, nil
}
