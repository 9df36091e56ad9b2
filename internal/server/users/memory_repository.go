package users

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/recharge/internal/common"
)

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[string]*User{}, byEmail: map[string]string{}}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byID[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[key] = user.ID
	return user, nil
}

func (r *MemoryRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if emailKey(old.Email) != emailKey(user.Email) {
		if _, taken := r.byEmail[emailKey(user.Email)]; taken {
			return common.ErrorAlreadyExists
		}
		delete(r.byEmail, emailKey(old.Email))
		r.byEmail[emailKey(user.Email)] = user.ID
	}

	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[emailKey(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *MemoryRepository) GetUserByGoogleID(_ context.Context, googleID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if googleID == "" {
		return nil, common.ErrorNotFound
	}
	for _, u := range r.byID {
		if u.GoogleID == googleID {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

var _ Repository = (*MemoryRepository)(nil)
