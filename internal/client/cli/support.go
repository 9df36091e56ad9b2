package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recharge/internal/client/models"
)

// Support collects a support ticket. Name and email default to the
// signed-in principal.
func (a *App) Support(ctx context.Context) error {
	var req models.TicketRequest
	var err error

	if p := a.auth.Current().Principal; p != nil {
		req.Name, req.Email = p.Name, p.Email
	}

	if req.Name == "" {
		if req.Name, err = getSimpleText(a.reader, "Enter your name", a.out); err != nil {
			return err
		}
	}
	if req.Email == "" {
		if req.Email, err = getSimpleText(a.reader, "Enter your email", a.out); err != nil {
			return err
		}
	}
	if req.Subject, err = getSimpleText(a.reader, "Subject", a.out); err != nil {
		return err
	}
	if req.Message, err = getMultiline(a.reader, "Describe the problem", a.out); err != nil {
		return err
	}

	ticket, err := a.support.CreateTicket(ctx, req)
	if err != nil {
		a.report(ctx, err, "Failed to submit ticket")
		return err
	}

	fmt.Fprintf(a.out, "Ticket %s created. We will get back to you at %s.\n", ticket.TicketID, ticket.Email)
	return nil
}
