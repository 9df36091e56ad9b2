package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recharge/internal/common"
	"github.com/dmitrijs2005/recharge/internal/cryptox"
	"github.com/dmitrijs2005/recharge/internal/server/auth"
	"github.com/dmitrijs2005/recharge/internal/server/config"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AuthResult is returned by every operation that issues a token.
type AuthResult struct {
	Token string
	User  *User
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// FederatedInput is the identity claimed by Google sign-in.
type FederatedInput struct {
	GoogleID string
	Email    string
	Name     string
	Avatar   string
}

type Service struct {
	repo                  Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	now                   func() time.Time
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		now:                   time.Now,
	}
}

// Register creates a password account and issues a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	case !emailPattern.MatchString(in.Email):
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	case len(in.Password) < 6:
		return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrorValidation)
	}
	if in.Role == "" {
		in.Role = "user"
	}

	password := []byte(in.Password)
	defer common.WipeByteArray(password)

	salt := cryptox.NewSalt()
	user := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword(password, salt),
		CreatedAt:    s.now().UTC(),
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks email and password. Unknown accounts and wrong passwords
// both yield common.ErrorInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	if len(user.PasswordHash) == 0 || !cryptox.VerifyPassword(pw, user.Salt, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.issue(user)
}

// LoginFederated signs in a Google identity. An unknown Google id is linked
// to the account with the same email, or a new account is created.
func (s *Service) LoginFederated(ctx context.Context, in FederatedInput) (*AuthResult, error) {
	if in.GoogleID == "" || !emailPattern.MatchString(in.Email) {
		return nil, fmt.Errorf("%w: google id and email are required", common.ErrorValidation)
	}

	user, err := s.repo.GetUserByGoogleID(ctx, in.GoogleID)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	user, err = s.repo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		user.GoogleID = in.GoogleID
		if user.Avatar == "" {
			user.Avatar = in.Avatar
		}
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("error linking user: %w", err)
		}
	case errors.Is(err, common.ErrorNotFound):
		name := in.Name
		if name == "" {
			name = in.Email
		}
		user, err = s.repo.Create(ctx, &User{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     in.Email,
			Role:      "user",
			Avatar:    in.Avatar,
			GoogleID:  in.GoogleID,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
	default:
		return nil, common.ErrorInternal
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *Service) issue(user *User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: user}, nil
}
