package services

import (
	"context"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/models"
)

type SupportService interface {
	CreateTicket(ctx context.Context, req models.TicketRequest) (*models.Ticket, error)
}

type supportService struct {
	api client.API
}

func NewSupportService(api client.API) SupportService {
	return &supportService{api: api}
}

// CreateTicket validates the form and files it. A response with
// success=false is a failure carrying the backend's message.
func (s *supportService) CreateTicket(ctx context.Context, req models.TicketRequest) (*models.Ticket, error) {
	if err := ValidateTicket(req); err != nil {
		return nil, oops.Code(CodeValidationFailed).Wrap(err)
	}

	res, err := s.api.CreateTicket(ctx, req)
	if err != nil {
		return nil, oops.Code(CodeTicketFailed).With("subject", req.Subject).Wrap(err)
	}
	if !res.Success || res.Ticket == nil {
		return nil, oops.Code(CodeTicketFailed).Wrap(&failureError{msg: res.Message})
	}
	return res.Ticket, nil
}
