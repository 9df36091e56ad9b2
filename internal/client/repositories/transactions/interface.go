// Package transactions caches recharge transactions in the local SQLite
// database so history can still be shown when the backend refuses or fails
// the history call.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/recharge/internal/client/models"
)

// Repository stores transactions per owner (principal id or email).
type Repository interface {
	// Save upserts tx by its TransactionID.
	Save(ctx context.Context, owner string, tx *models.Transaction) error

	// List returns the owner's transactions, newest first. limit <= 0 means all.
	List(ctx context.Context, owner string, limit int) ([]models.Transaction, error)

	// Replace swaps the owner's cached history for txs in one statement batch.
	Replace(ctx context.Context, owner string, txs []models.Transaction) error

	// Clear drops the owner's cached history.
	Clear(ctx context.Context, owner string) error
}
