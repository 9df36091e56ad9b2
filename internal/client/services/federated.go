package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/dmitrijs2005/recharge/internal/client/models"
)

// DefaultGoogleIssuer is the issuer of Google ID tokens.
const DefaultGoogleIssuer = "https://accounts.google.com"

var ErrFederatedDisabled = errors.New("federated login is not configured")

// IDTokenVerifier verifies a raw OIDC ID token. *oidc.IDTokenVerifier
// satisfies it.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// NewProviderVerifier discovers issuer and returns a verifier bound to
// clientID. It contacts the issuer's discovery endpoint.
func NewProviderVerifier(ctx context.Context, issuer, clientID string) (*oidc.IDTokenVerifier, error) {
	if clientID == "" {
		return nil, ErrFederatedDisabled
	}
	if issuer == "" {
		issuer = DefaultGoogleIssuer
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", issuer, err)
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

// LazyVerifier discovers the issuer on first use. A failed discovery is
// retried on the next call.
type LazyVerifier struct {
	issuer   string
	clientID string

	mu       sync.Mutex
	verifier IDTokenVerifier
}

func NewLazyVerifier(issuer, clientID string) *LazyVerifier {
	return &LazyVerifier{issuer: issuer, clientID: clientID}
}

func (l *LazyVerifier) Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error) {
	l.mu.Lock()
	if l.verifier == nil {
		v, err := NewProviderVerifier(ctx, l.issuer, l.clientID)
		if err != nil {
			l.mu.Unlock()
			return nil, err
		}
		l.verifier = v
	}
	v := l.verifier
	l.mu.Unlock()

	return v.Verify(ctx, rawIDToken)
}

type identityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// VerifyIdentity verifies rawIDToken and extracts the claimed identity.
func VerifyIdentity(ctx context.Context, v IDTokenVerifier, rawIDToken string) (*models.FederatedIdentity, error) {
	if rawIDToken == "" {
		return nil, errors.New("empty ID token")
	}

	tok, err := v.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify ID token: %w", err)
	}

	var claims identityClaims
	if err := tok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode ID token claims: %w", err)
	}
	if tok.Subject == "" || claims.Email == "" {
		return nil, errors.New("ID token lacks subject or email")
	}

	return &models.FederatedIdentity{
		ExternalID: tok.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		Avatar:     claims.Picture,
	}, nil
}
