package tickets

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/recharge/internal/common"
)

type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, ticketID string) (*Ticket, error)
}

// MemoryRepository keeps tickets in process memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]Ticket
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[string]Ticket{}}
}

func (r *MemoryRepository) Create(_ context.Context, t *Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.TicketID]; ok {
		return common.ErrorAlreadyExists
	}
	r.byID[t.TicketID] = *t
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, ticketID string) (*Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[ticketID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

var _ Repository = (*MemoryRepository)(nil)
