package transactions

import (
	"context"
	"slices"
	"sync"
)

type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	// ListByUser returns the user's transactions newest first.
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
}

// MemoryRepository keeps transactions in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: map[string][]Transaction{}}
}

func (r *MemoryRepository) Create(_ context.Context, tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[tx.UserID] = append(r.byUser[tx.UserID], *tx)
	return nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]Transaction, error) {
	r.mu.RLock()
	out := slices.Clone(r.byUser[userID])
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

var _ Repository = (*MemoryRepository)(nil)
