package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts a transaction. The local row id is derived from owner and
// TransactionID so repeated saves of the same recharge collapse into one row.
func (r *SQLiteRepository) Save(ctx context.Context, owner string, tx *models.Transaction) error {
	plan, err := encodePlan(tx.Plan)
	if err != nil {
		return err
	}

	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	status := tx.Status
	if status == "" {
		status = "completed"
	}

	query := `INSERT INTO transactions
			(id, owner, transaction_id, operator, mobile_number, amount, payment_method, plan, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				operator = excluded.operator,
				mobile_number = excluded.mobile_number,
				amount = excluded.amount,
				payment_method = excluded.payment_method,
				plan = excluded.plan,
				status = excluded.status,
				created_at = excluded.created_at
	`
	_, err = r.db.ExecContext(ctx, query,
		rowID(owner, tx.TransactionID), owner, tx.TransactionID, string(tx.Operator), tx.MobileNumber,
		tx.Amount, string(tx.PaymentMethod), plan, status, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return nil
}

// List returns cached transactions of owner ordered by creation time, newest first.
func (r *SQLiteRepository) List(ctx context.Context, owner string, limit int) ([]models.Transaction, error) {
	query := `SELECT id, transaction_id, operator, mobile_number, amount, payment_method, plan, status, created_at
			FROM transactions WHERE owner = ? ORDER BY created_at DESC`
	args := []any{owner}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		var (
			item     models.Transaction
			id       string
			operator string
			method   string
			plan     string
		)
		if err := rows.Scan(&id, &item.TransactionID, &operator, &item.MobileNumber, &item.Amount,
			&method, &plan, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		item.ID = models.ID(id)
		item.Operator = models.Operator(operator)
		item.PaymentMethod = models.PaymentMethod(method)
		if item.Plan, err = decodePlan(plan); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return result, nil
}

// Replace deletes the owner's rows and saves txs. Callers wanting atomicity
// pass a *sql.Tx (see dbx.WithTx).
func (r *SQLiteRepository) Replace(ctx context.Context, owner string, txs []models.Transaction) error {
	if err := r.Clear(ctx, owner); err != nil {
		return err
	}
	for i := range txs {
		if err := r.Save(ctx, owner, &txs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all cached transactions of owner.
func (r *SQLiteRepository) Clear(ctx context.Context, owner string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	return nil
}

var cacheNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

func rowID(owner, transactionID string) string {
	if transactionID == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(cacheNamespace, []byte(owner+"/"+transactionID)).String()
}

func encodePlan(p *models.Plan) (string, error) {
	if p == nil {
		return "", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}
	return string(b), nil
}

func decodePlan(s string) (*models.Plan, error) {
	if s == "" {
		return nil, nil
	}
	var p models.Plan
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &p, nil
}

var _ Repository = (*SQLiteRepository)(nil)
