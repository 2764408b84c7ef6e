package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"axolotary/internal/domain/breeding"
)

type breedingRepo struct {
	mu    sync.RWMutex
	byID  map[string]breeding.Event
	order []string
}

func NewBreedingRepo() breeding.Repository {
	return &breedingRepo{
		byID: make(map[string]breeding.Event),
	}
}

func (r *breedingRepo) Create(ctx context.Context, e breeding.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	r.byID[e.ID] = e
	r.order = append(r.order, e.ID)
	return nil
}

func (r *breedingRepo) Update(ctx context.Context, e breeding.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[e.ID]
	if !exists || !cur.IsActive {
		return breeding.ErrNotFound
	}
	e.IsActive = cur.IsActive
	r.byID[e.ID] = e
	return nil
}

func (r *breedingRepo) GetByID(ctx context.Context, id string) (breeding.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return breeding.Event{}, breeding.ErrNotFound
	}
	return e, nil
}

func (r *breedingRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]breeding.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]breeding.Event, 0)
	for _, id := range r.order {
		if e := r.byID[id]; e.OwnerUserID == ownerUserID {
			out = append(out, e)
		}
	}
	return out, nil
}

// SoftDelete es el equivalente del Void: el evento queda, inactivo.
func (r *breedingRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return breeding.ErrNotFound
	}
	e.IsActive = false
	r.byID[id] = e
	return nil
}
