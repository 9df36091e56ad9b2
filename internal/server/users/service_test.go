package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recharge/internal/common"
	"github.com/dmitrijs2005/recharge/internal/server/auth"
	"github.com/dmitrijs2005/recharge/internal/server/config"
)

func newUserService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	return NewService(repo, cfg), repo
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService(t)

	res, err := s.Register(ctx, RegisterInput{Name: "Test User", Email: "user@test.com", Phone: "9876543210", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "user", res.User.Role)

	id, err := auth.GetUserIDFromToken(res.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)

	login, err := s.Login(ctx, "USER@test.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = s.Login(ctx, "user@test.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorInvalidCredentials)

	_, err = s.Login(ctx, "nobody@test.com", "password123")
	assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newUserService(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "no name", in: RegisterInput{Email: "a@b.com", Password: "password"}},
		{name: "bad email", in: RegisterInput{Name: "A B", Email: "nope", Password: "password"}},
		{name: "short password", in: RegisterInput{Name: "A B", Email: "a@b.com", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService(t)

	in := RegisterInput{Name: "Test User", Email: "user@test.com", Password: "password123"}
	_, err := s.Register(ctx, in)
	require.NoError(t, err)

	_, err = s.Register(ctx, in)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLoginFederated(t *testing.T) {
	ctx := context.Background()
	s, repo := newUserService(t)

	t.Run("creates an account", func(t *testing.T) {
		res, err := s.LoginFederated(ctx, FederatedInput{GoogleID: "g-1", Email: "new@test.com", Name: "New", Avatar: "pic"})
		require.NoError(t, err)
		assert.Equal(t, "New", res.User.Name)
		assert.Equal(t, "pic", res.User.Avatar)

		again, err := s.LoginFederated(ctx, FederatedInput{GoogleID: "g-1", Email: "new@test.com"})
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, again.User.ID)
	})

	t.Run("links an existing password account", func(t *testing.T) {
		reg, err := s.Register(ctx, RegisterInput{Name: "Old", Email: "old@test.com", Password: "password123"})
		require.NoError(t, err)

		res, err := s.LoginFederated(ctx, FederatedInput{GoogleID: "g-2", Email: "old@test.com"})
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, res.User.ID)

		stored, err := repo.GetUserByID(ctx, reg.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "g-2", stored.GoogleID)

		// The password still works after linking.
		_, err = s.Login(ctx, "old@test.com", "password123")
		require.NoError(t, err)
	})

	t.Run("federated-only accounts cannot use a password", func(t *testing.T) {
		_, err := s.Login(ctx, "new@test.com", "")
		assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
	})

	t.Run("requires id and email", func(t *testing.T) {
		_, err := s.LoginFederated(ctx, FederatedInput{Email: "x@test.com"})
		assert.ErrorIs(t, err, common.ErrorValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService(t)

	res, err := s.Register(ctx, RegisterInput{Name: "Test User", Email: "user@test.com", Password: "password123"})
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "user@test.com", u.Email)

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	orphan, err := auth.GenerateToken("missing-user", []byte("k"), time.Hour)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	expired, err := auth.GenerateToken(res.User.ID, []byte("k"), -time.Second)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, expired)
	assert.True(t, errors.Is(err, common.ErrTokenExpired))
}

func TestMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, &User{ID: "1", Email: "a@test.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &User{ID: "2", Email: "b@test.com"})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Update(ctx, &User{ID: "1", Email: "B@test.com"}), common.ErrorAlreadyExists)
	assert.ErrorIs(t, repo.Update(ctx, &User{ID: "3", Email: "c@test.com"}), common.ErrorNotFound)

	require.NoError(t, repo.Update(ctx, &User{ID: "1", Email: "c@test.com"}))
	_, err = repo.GetUserByEmail(ctx, "a@test.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	u, err := repo.GetUserByEmail(ctx, "c@test.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
}
