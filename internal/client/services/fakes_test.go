package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/models"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func storedValue(t *testing.T, db *sql.DB, key string) (string, bool) {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false
	}
	require.NoError(t, err)
	return string(v), true
}

// ---- fake API ----

// fakeAPI implements client.API for service unit tests. Unset results
// default to zero values.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	LoginRes *models.AuthResult
	LoginErr error

	RegisterRes *models.AuthResult
	RegisterErr error

	FederatedRes *models.AuthResult
	FederatedErr error
	LastIdentity models.FederatedIdentity

	PlansSeq  [][]models.Plan
	PlansErr  error
	SeedErr   error
	plansCall int

	CreatedRes *models.Transaction
	CreateErr  error
	LastTx     *models.Transaction

	HistoryRes []models.Transaction
	HistoryErr error

	TicketRes *models.TicketResult
	TicketErr error

	LastCreds   models.Credentials
	LastProfile models.Profile
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(_ context.Context, creds models.Credentials) (*models.AuthResult, error) {
	f.record("login")
	f.LastCreds = creds
	return f.LoginRes, f.LoginErr
}

func (f *fakeAPI) Register(_ context.Context, p models.Profile) (*models.AuthResult, error) {
	f.record("register")
	f.LastProfile = p
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	if f.RegisterRes == nil {
		return &models.AuthResult{}, nil
	}
	return f.RegisterRes, nil
}

func (f *fakeAPI) ExchangeFederated(_ context.Context, id models.FederatedIdentity) (*models.AuthResult, error) {
	f.record("federated")
	f.LastIdentity = id
	return f.FederatedRes, f.FederatedErr
}

func (f *fakeAPI) ListPlans(context.Context) ([]models.Plan, error) {
	f.record("plans")
	if f.PlansErr != nil {
		return nil, f.PlansErr
	}
	if f.plansCall >= len(f.PlansSeq) {
		return []models.Plan{}, nil
	}
	p := f.PlansSeq[f.plansCall]
	f.plansCall++
	return p, nil
}

func (f *fakeAPI) SeedPlans(context.Context) error {
	f.record("seed")
	return f.SeedErr
}

func (f *fakeAPI) CreateTransaction(_ context.Context, tx *models.Transaction) (*models.Transaction, error) {
	f.record("create")
	f.LastTx = tx
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if f.CreatedRes != nil {
		return f.CreatedRes, nil
	}
	c := *tx
	return &c, nil
}

func (f *fakeAPI) ListTransactions(context.Context) ([]models.Transaction, error) {
	f.record("history")
	return f.HistoryRes, f.HistoryErr
}

func (f *fakeAPI) CreateTicket(context.Context, models.TicketRequest) (*models.TicketResult, error) {
	f.record("ticket")
	return f.TicketRes, f.TicketErr
}

var _ client.API = (*fakeAPI)(nil)
