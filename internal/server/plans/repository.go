package plans

import (
	"context"
	"slices"
	"sync"
)

type Repository interface {
	List(ctx context.Context) ([]Plan, error)
	// ReplaceAll swaps the whole catalog.
	ReplaceAll(ctx context.Context, plans []Plan) error
}

// MemoryRepository keeps the catalog in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	plans []Plan
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(_ context.Context) ([]Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.plans), nil
}

func (r *MemoryRepository) ReplaceAll(_ context.Context, plans []Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = slices.Clone(plans)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
