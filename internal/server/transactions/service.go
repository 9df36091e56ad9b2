package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recharge/internal/common"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// CreateInput is the body of a recharge request.
type CreateInput struct {
	Operator      string          `json:"operator"`
	MobileNumber  string          `json:"mobileNumber"`
	Amount        int             `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId"`
	Plan          json.RawMessage `json:"plan,omitempty"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create records a completed recharge for userID. A missing transaction id
// is generated the way clients do.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Transaction, error) {
	switch {
	case strings.TrimSpace(in.Operator) == "":
		return nil, fmt.Errorf("%w: operator is required", common.ErrorValidation)
	case !mobilePattern.MatchString(in.MobileNumber):
		return nil, fmt.Errorf("%w: invalid mobile number", common.ErrorValidation)
	case in.Amount <= 0:
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrorValidation)
	}

	now := s.now().UTC()
	tx := &Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Operator:      in.Operator,
		MobileNumber:  in.MobileNumber,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		TransactionID: in.TransactionID,
		Plan:          in.Plan,
		Status:        "completed",
		CreatedAt:     now,
	}
	if tx.TransactionID == "" {
		ms := strconv.FormatInt(now.UnixMilli(), 10)
		tx.TransactionID = "TXN" + ms[max(0, len(ms)-8):]
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}
	return tx, nil
}

// List returns userID's transactions newest first, never nil.
func (s *Service) List(ctx context.Context, userID string) ([]Transaction, error) {
	txs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	if txs == nil {
		txs = []Transaction{}
	}
	return txs, nil
}
