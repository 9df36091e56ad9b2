package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/recharge/internal/client/models"
)

// Backend endpoints.
const (
	PathLogin          = "/auth/login"
	PathRegister       = "/auth/register"
	PathFederatedLogin = "/auth/google/token"
	PathPlans          = "/plans"
	PathSeedPlans      = "/plans/seed"
	PathTransactions   = "/transactions"
	PathSupportTickets = "/support/tickets"
)

// API is the typed surface of the backend used by the services.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, profile models.Profile) (*models.AuthResult, error)
	ExchangeFederated(ctx context.Context, identity models.FederatedIdentity) (*models.AuthResult, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
	SeedPlans(ctx context.Context) error
	CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	CreateTicket(ctx context.Context, req models.TicketRequest) (*models.TicketResult, error)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.Do(ctx, http.MethodPost, PathLogin, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register may answer with a credential or with a bare confirmation; in the
// latter case the returned AuthResult is empty.
func (c *HTTPClient) Register(ctx context.Context, profile models.Profile) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.Do(ctx, http.MethodPost, PathRegister, profile, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ExchangeFederated(ctx context.Context, identity models.FederatedIdentity) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.Do(ctx, http.MethodPost, PathFederatedLogin, identity, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, PathPlans, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Plan](PathPlans, raw)
}

func (c *HTTPClient) SeedPlans(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, PathSeedPlans, nil, nil)
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, PathTransactions, tx, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		created := *tx
		return &created, nil
	}
	var created models.Transaction
	if err := decodeRecord(PathTransactions, raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, PathTransactions, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[models.Transaction](PathTransactions, raw)
}

func (c *HTTPClient) CreateTicket(ctx context.Context, req models.TicketRequest) (*models.TicketResult, error) {
	var res models.TicketResult
	if err := c.Do(ctx, http.MethodPost, PathSupportTickets, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

var _ API = (*HTTPClient)(nil)
