// Package tickets stores support tickets for the development backend.
package tickets

import "time"

// Ticket is a support request.
type Ticket struct {
	TicketID  string    `json:"ticketId"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
