package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"axolotary/internal/domain/axolotls"
)

// axolotlRepo guarda el orden de alta aparte: los listados lo respetan.
type axolotlRepo struct {
	mu    sync.RWMutex
	byID  map[string]axolotls.Axolotl
	order []string
}

func NewAxolotlRepo() axolotls.Repository {
	return &axolotlRepo{
		byID: make(map[string]axolotls.Axolotl),
	}
}

func (r *axolotlRepo) Create(ctx context.Context, a axolotls.Axolotl) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("axolotl id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("axolotl already exists")
	}
	r.byID[a.ID] = cloneAxolotl(a)
	r.order = append(r.order, a.ID)
	return nil
}

func (r *axolotlRepo) Update(ctx context.Context, a axolotls.Axolotl) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[a.ID]
	if !exists || !cur.IsActive {
		return axolotls.ErrNotFound
	}
	a.IsActive = cur.IsActive
	r.byID[a.ID] = cloneAxolotl(a)
	return nil
}

func (r *axolotlRepo) GetByID(ctx context.Context, id string) (axolotls.Axolotl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return axolotls.Axolotl{}, axolotls.ErrNotFound
	}
	return cloneAxolotl(a), nil
}

func (r *axolotlRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]axolotls.Axolotl, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]axolotls.Axolotl, 0)
	for _, id := range r.order {
		if a := r.byID[id]; a.OwnerUserID == ownerUserID {
			out = append(out, cloneAxolotl(a))
		}
	}
	return out, nil
}

func (r *axolotlRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return axolotls.ErrNotFound
	}
	a.IsActive = false
	r.byID[id] = a
	return nil
}

// cloneAxolotl evita compartir el *time.Time de BirthDate con quien llama.
func cloneAxolotl(a axolotls.Axolotl) axolotls.Axolotl {
	if a.BirthDate != nil {
		bd := *a.BirthDate
		a.BirthDate = &bd
	}
	return a
}
