package tickets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recharge/internal/common"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	s := NewService(repo)

	tk, err := s.Create(ctx, "u1", CreateInput{Name: " Test User ", Email: "user@test.com", Subject: "Refund", Message: "Charged twice"})
	require.NoError(t, err)
	assert.Regexp(t, `^TKT[0-9A-F]{8}$`, tk.TicketID)
	assert.Equal(t, "open", tk.Status)
	assert.Equal(t, "Test User", tk.Name)

	stored, err := repo.Get(ctx, tk.TicketID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)

	_, err = repo.Get(ctx, "TKT0")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestService_CreateValidation(t *testing.T) {
	s := NewService(NewMemoryRepository())
	_, err := s.Create(context.Background(), "u1", CreateInput{Name: "A", Email: "a@b.com", Subject: " "})
	assert.ErrorIs(t, err, common.ErrorValidation)
}
