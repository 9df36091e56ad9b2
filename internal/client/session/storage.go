package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recharge/internal/common"
	"github.com/dmitrijs2005/recharge/internal/dbx"
)

// Storage is the durable copy of the session. Credential and principal are
// always written and removed together.
type Storage interface {
	// Load returns the stored pair. A missing value yields "" or nil without error.
	Load(ctx context.Context) (credential string, principal *models.Principal, err error)
	Save(ctx context.Context, credential string, principal *models.Principal) error
	Evict(ctx context.Context) error
}

// SQLStorage keeps the session in the metadata table of the local database.
type SQLStorage struct {
	db *sql.DB
}

func NewSQLStorage(db *sql.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

func (s *SQLStorage) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Load reads both keys. A principal that fails to decode is reported as an
// error so the caller can discard the stored pair.
func (s *SQLStorage) Load(ctx context.Context) (string, *models.Principal, error) {
	repo := s.repo(s.db)

	token, err := repo.Get(ctx, common.CredentialStorageKey)
	if err != nil {
		return "", nil, err
	}
	raw, err := repo.Get(ctx, common.PrincipalStorageKey)
	if err != nil {
		return "", nil, err
	}
	if len(raw) == 0 {
		return string(token), nil, nil
	}

	var p models.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return string(token), nil, fmt.Errorf("decode stored principal: %w", err)
	}
	return string(token), &p, nil
}

func (s *SQLStorage) Save(ctx context.Context, credential string, principal *models.Principal) error {
	raw, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("encode principal: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.CredentialStorageKey, []byte(credential)); err != nil {
			return err
		}
		return repo.Set(ctx, common.PrincipalStorageKey, raw)
	})
}

func (s *SQLStorage) Evict(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, common.CredentialStorageKey, common.PrincipalStorageKey)
	})
}

// MemoryStorage is a Storage kept in process memory. The CLI uses it with
// -ephemeral, tests use it to count writes.
type MemoryStorage struct {
	credential string
	principal  []byte
	Saves      int
	Evicts     int
}

func (m *MemoryStorage) Load(_ context.Context) (string, *models.Principal, error) {
	if m.principal == nil {
		return m.credential, nil, nil
	}
	var p models.Principal
	if err := json.Unmarshal(m.principal, &p); err != nil {
		return m.credential, nil, err
	}
	return m.credential, &p, nil
}

func (m *MemoryStorage) Save(_ context.Context, credential string, principal *models.Principal) error {
	raw, err := json.Marshal(principal)
	if err != nil {
		return err
	}
	m.credential, m.principal = credential, raw
	m.Saves++
	return nil
}

func (m *MemoryStorage) Evict(_ context.Context) error {
	m.credential, m.principal = "", nil
	m.Evicts++
	return nil
}

// Empty reports whether nothing is stored.
func (m *MemoryStorage) Empty() bool {
	return m.credential == "" && m.principal == nil
}
