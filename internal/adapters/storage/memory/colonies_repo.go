package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"axolotary/internal/domain/colonies"
)

type colonyRepo struct {
	mu sync.RWMutex

	byID  map[string]colonies.Colony
	order []string

	ponds     map[string]colonies.Pond
	pondOrder []string
}

func NewColonyRepo() colonies.Repository {
	return &colonyRepo{
		byID:  make(map[string]colonies.Colony),
		ponds: make(map[string]colonies.Pond),
	}
}

func (r *colonyRepo) Create(ctx context.Context, c colonies.Colony) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("colony id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("colony already exists")
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *colonyRepo) GetByID(ctx context.Context, id string) (colonies.Colony, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return colonies.Colony{}, colonies.ErrNotFound
	}
	return c, nil
}

func (r *colonyRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]colonies.Colony, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]colonies.Colony, 0)
	for _, id := range r.order {
		if c := r.byID[id]; c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *colonyRepo) Update(ctx context.Context, c colonies.Colony) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[c.ID]; !ok {
		return colonies.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *colonyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return colonies.ErrNotFound
	}
	delete(r.byID, id)
	r.order = without(r.order, func(cid string) bool { return cid == id })

	r.pondOrder = without(r.pondOrder, func(pid string) bool {
		if r.ponds[pid].ColonyID != id {
			return false
		}
		delete(r.ponds, pid)
		return true
	})
	return nil
}

// without filtra ids en sitio, conservando el orden.
func without(ids []string, drop func(string) bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if !drop(id) {
			out = append(out, id)
		}
	}
	return out
}

func (r *colonyRepo) CreatePond(ctx context.Context, p colonies.Pond) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pond id required")
	}
	if _, ok := r.byID[p.ColonyID]; !ok {
		return colonies.ErrNotFound
	}
	if _, exists := r.ponds[p.ID]; exists {
		return errors.New("pond already exists")
	}
	r.ponds[p.ID] = p
	r.pondOrder = append(r.pondOrder, p.ID)
	return nil
}

func (r *colonyRepo) GetPond(ctx context.Context, id string) (colonies.Pond, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.ponds[id]
	if !ok {
		return colonies.Pond{}, colonies.ErrNotFound
	}
	return p, nil
}

func (r *colonyRepo) ListPonds(ctx context.Context, colonyID string) ([]colonies.Pond, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]colonies.Pond, 0)
	for _, id := range r.pondOrder {
		if p := r.ponds[id]; p.ColonyID == colonyID {
			out = append(out, p)
		}
	}
	return out, nil
}
