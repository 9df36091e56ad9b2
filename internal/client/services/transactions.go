package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/recharge/internal/client/session"
	"github.com/dmitrijs2005/recharge/internal/dbx"
	"github.com/dmitrijs2005/recharge/internal/logging"
)

// History sort orders.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortAmountHigh = "amount-high"
	SortAmountLow  = "amount-low"
)

// HistoryQuery narrows and orders transaction history. Search matches the
// mobile number or the operator name.
type HistoryQuery struct {
	Search   string
	Operator string
	SortBy   string
}

// History is a transaction list and where it came from.
type History struct {
	Transactions []models.Transaction
	// Cached is set when the backend call failed and the list was read
	// from the local cache.
	Cached bool
	// Err is the backend failure behind a cached result.
	Err error
}

// Stats summarizes a history.
type Stats struct {
	TotalAmount      int
	AverageAmount    int
	MostUsedOperator string
	Count            int
}

type TransactionService interface {
	// Recharge validates req, creates the transaction and caches it locally.
	Recharge(ctx context.Context, req RechargeRequest) (*models.Transaction, error)
	// History fetches the user's transactions, falling back to the local cache.
	History(ctx context.Context) (*History, error)
}

// Principals returns the current principal; *session.Store satisfies it.
type Principals interface {
	Snapshot() session.State
}

type transactionService struct {
	api    client.API
	db     *sql.DB
	owner  Principals
	logger logging.Logger
	now    func() time.Time
}

// NewTransactionService builds a TransactionService. db may be nil, which
// disables the local cache.
func NewTransactionService(api client.API, db *sql.DB, owner Principals, logger logging.Logger) TransactionService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &transactionService{api: api, db: db, owner: owner, logger: logger, now: time.Now}
}

func (s *transactionService) getRepo(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLiteRepository(db)
}

func (s *transactionService) ownerKey() string {
	p := s.owner.Snapshot().Principal
	if p == nil {
		return ""
	}
	if p.ID != "" {
		return p.ID.String()
	}
	return p.Email
}

func (s *transactionService) Recharge(ctx context.Context, req RechargeRequest) (*models.Transaction, error) {
	if err := ValidateRecharge(req); err != nil {
		return nil, oops.Code(CodeValidationFailed).Wrap(err)
	}

	now := s.now()
	tx := &models.Transaction{
		Operator:      models.Operator(req.Operator),
		MobileNumber:  req.MobileNumber,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: NewTransactionID(now),
		Plan:          req.Plan,
	}

	created, err := s.api.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, oops.Code(CodeRechargeFailed).
			With("transaction_id", tx.TransactionID).
			With("operator", req.Operator).
			Wrap(err)
	}

	if created.TransactionID == "" {
		created.TransactionID = tx.TransactionID
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now.UTC()
	}
	if created.Status == "" {
		created.Status = "completed"
	}

	if owner := s.ownerKey(); s.db != nil && owner != "" {
		if err := s.getRepo(s.db).Save(ctx, owner, created); err != nil {
			s.logger.Warn(ctx, "failed to cache transaction", "transaction_id", created.TransactionID, "error", err)
		}
	}
	return created, nil
}

func (s *transactionService) History(ctx context.Context) (*History, error) {
	owner := s.ownerKey()

	txs, err := s.api.ListTransactions(ctx)
	if err == nil {
		if s.db != nil && owner != "" {
			err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				return s.getRepo(tx).Replace(ctx, owner, txs)
			})
			if err != nil {
				s.logger.Warn(ctx, "failed to refresh transaction cache", "error", err)
			}
		}
		return &History{Transactions: txs}, nil
	}

	if s.db == nil || owner == "" {
		return nil, oops.Code(CodeHistoryFailed).Wrap(err)
	}

	cached, cacheErr := s.getRepo(s.db).List(ctx, owner, 0)
	if cacheErr != nil || len(cached) == 0 {
		if cacheErr != nil {
			s.logger.Warn(ctx, "failed to read transaction cache", "error", cacheErr)
		}
		return nil, oops.Code(CodeHistoryFailed).Wrap(err)
	}

	s.logger.Info(ctx, "showing cached history", "count", len(cached), "reason", err)
	return &History{Transactions: cached, Cached: true, Err: err}, nil
}

// NewTransactionID returns "TXN" followed by the last eight digits of the
// Unix millisecond clock.
func NewTransactionID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) < 8 {
		ms = strings.Repeat("0", 8-len(ms)) + ms
	}
	return "TXN" + ms[len(ms)-8:]
}

// FilterTransactions applies q and returns a new slice.
func FilterTransactions(txs []models.Transaction, q HistoryQuery) []models.Transaction {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Transaction, 0, len(txs))

	for _, t := range txs {
		op := string(t.Operator)
		if search != "" && !strings.Contains(t.MobileNumber, search) && !strings.Contains(strings.ToLower(op), search) {
			continue
		}
		if q.Operator != "" && q.Operator != models.CategoryAll && op != q.Operator {
			continue
		}
		out = append(out, t)
	}

	SortTransactions(out, q.SortBy)
	return out
}

// SortTransactions orders txs in place. Unknown orders leave it unchanged.
func SortTransactions(txs []models.Transaction, by string) {
	var cmp func(a, b models.Transaction) int
	switch by {
	case SortNewest:
		cmp = func(a, b models.Transaction) int { return b.Timestamp().Compare(a.Timestamp()) }
	case SortOldest:
		cmp = func(a, b models.Transaction) int { return a.Timestamp().Compare(b.Timestamp()) }
	case SortAmountHigh:
		cmp = func(a, b models.Transaction) int { return b.Amount - a.Amount }
	case SortAmountLow:
		cmp = func(a, b models.Transaction) int { return a.Amount - b.Amount }
	default:
		return
	}
	slices.SortStableFunc(txs, cmp)
}

// Operators returns the distinct operator names in first-seen order.
func Operators(txs []models.Transaction) []string {
	var out []string
	for _, t := range txs {
		if op := string(t.Operator); !slices.Contains(out, op) {
			out = append(out, op)
		}
	}
	return out
}

// ComputeStats summarizes txs. The average is rounded to the nearest unit;
// the most used operator is "None" for an empty history, and on a tie it is
// the operator that reached the count first.
func ComputeStats(txs []models.Transaction) Stats {
	st := Stats{MostUsedOperator: "None", Count: len(txs)}
	if len(txs) == 0 {
		return st
	}

	counts := map[string]int{}
	best := 0
	for _, t := range txs {
		st.TotalAmount += t.Amount
		op := string(t.Operator)
		counts[op]++
		if counts[op] > best {
			best = counts[op]
			st.MostUsedOperator = op
		}
	}
	st.AverageAmount = (st.TotalAmount*2 + len(txs)) / (2 * len(txs))
	return st
}

// ExportCSV writes txs as CSV with a header row.
func ExportCSV(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Operator", "Mobile Number", "Amount", "Transaction ID", "Status"}); err != nil {
		return err
	}
	for _, t := range txs {
		date := ""
		if !t.CreatedAt.IsZero() {
			date = t.CreatedAt.Format(time.DateOnly)
		}
		row := []string{date, string(t.Operator), t.MobileNumber, strconv.Itoa(t.Amount), t.TransactionID, t.Status}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
