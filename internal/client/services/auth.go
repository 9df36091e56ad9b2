package services

import (
	"context"
	"fmt"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/session"
	"github.com/dmitrijs2005/recharge/internal/logging"
)

// SessionStore is the session owner the auth service drives.
type SessionStore interface {
	Restore(ctx context.Context) (session.State, error)
	Establish(ctx context.Context, credential string, principal *models.Principal) error
	Clear(ctx context.Context) (bool, error)
	Snapshot() session.State
}

// AuthService defines the session lifecycle operations for the CLI.
//
// Contract:
//   - Restore: load the stored session without contacting the backend.
//   - Login: authenticate and persist credential and principal together.
//   - Signup: register, then log in with the same credentials. A failed
//     login after a successful registration is an overall failure.
//   - FederatedLogin: verify an external ID token and exchange it.
//   - Logout: local only and idempotent.
//   - Current: the current session snapshot.
//
// On any failure the session is left as it was.
type AuthService interface {
	Restore(ctx context.Context) session.State
	Login(ctx context.Context, email, password string) (*models.Principal, error)
	Signup(ctx context.Context, profile models.Profile) (*models.Principal, error)
	FederatedLogin(ctx context.Context, idToken string) (*models.Principal, error)
	Logout(ctx context.Context) error
	Current() session.State
}

type authService struct {
	api      client.API
	store    SessionStore
	verifier IDTokenVerifier
	logger   logging.Logger
}

// NewAuthService builds an AuthService. verifier may be nil, in which case
// FederatedLogin reports ErrFederatedDisabled.
func NewAuthService(api client.API, store SessionStore, verifier IDTokenVerifier, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{api: api, store: store, verifier: verifier, logger: logger}
}

// Restore applies the optimistic restore policy. Undecodable stored data is
// evicted and the session starts unauthenticated.
func (a *authService) Restore(ctx context.Context) session.State {
	st, err := a.store.Restore(ctx)
	if err != nil {
		logging.LogError(ctx, a.logger, "stored session discarded", oops.Code(CodeRestoreFailed).Wrap(err))
		if _, err := a.store.Clear(ctx); err != nil {
			a.logger.Warn(ctx, "failed to evict stored session", "error", err)
		}
	}
	return st
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Principal, error) {
	p, err := a.login(ctx, email, password)
	if err != nil {
		return nil, oops.Code(CodeLoginFailed).With("email", email).Wrap(err)
	}
	return p, nil
}

func (a *authService) login(ctx context.Context, email, password string) (*models.Principal, error) {
	res, err := a.api.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return a.establish(ctx, res)
}

func (a *authService) Signup(ctx context.Context, profile models.Profile) (*models.Principal, error) {
	if profile.Role == "" {
		profile.Role = "user"
	}

	if _, err := a.api.Register(ctx, profile); err != nil {
		return nil, oops.Code(CodeSignupFailed).With("email", profile.Email).Wrap(err)
	}

	p, err := a.login(ctx, profile.Email, profile.Password)
	if err != nil {
		a.logger.Warn(ctx, "account registered but login failed", "email", profile.Email)
		return nil, oops.Code(CodeSignupFailed).With("email", profile.Email).With("registered", true).Wrap(err)
	}
	return p, nil
}

func (a *authService) FederatedLogin(ctx context.Context, idToken string) (*models.Principal, error) {
	if a.verifier == nil {
		return nil, oops.Code(CodeFederatedFailed).Wrap(ErrFederatedDisabled)
	}

	identity, err := VerifyIdentity(ctx, a.verifier, idToken)
	if err != nil {
		return nil, oops.Code(CodeFederatedFailed).Wrap(err)
	}

	res, err := a.api.ExchangeFederated(ctx, *identity)
	if err == nil {
		var p *models.Principal
		if p, err = a.establish(ctx, res); err == nil {
			return p, nil
		}
	}
	return nil, oops.Code(CodeFederatedFailed).With("email", identity.Email).Wrap(err)
}

func (a *authService) Logout(ctx context.Context) error {
	was, err := a.store.Clear(ctx)
	if err != nil {
		return oops.Code(CodeLogoutFailed).Wrap(err)
	}
	if was {
		a.logger.Info(ctx, "logged out")
	}
	return nil
}

func (a *authService) Current() session.State {
	return a.store.Snapshot()
}

// establish makes res the current session. Codes are attached by callers.
func (a *authService) establish(ctx context.Context, res *models.AuthResult) (*models.Principal, error) {
	if res == nil || res.Token == "" || res.User == nil {
		return nil, fmt.Errorf("%w: response carries no credential", client.ErrMalformedResponse)
	}
	if err := a.store.Establish(ctx, res.Token, res.User); err != nil {
		return nil, err
	}
	a.logger.Info(ctx, "logged in", "user", res.User.DisplayName())

	p := *res.User
	return &p, nil
}
