package tickets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/recharge/internal/common"
)

// CreateInput is the support form.
type CreateInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create files an open ticket for userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Ticket, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}

	id, err := common.MakeRandHexString(4)
	if err != nil {
		return nil, common.ErrorInternal
	}

	t := &Ticket{
		TicketID:  "TKT" + strings.ToUpper(id),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		Status:    "open",
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("error creating ticket: %w", err)
	}
	return t, nil
}
