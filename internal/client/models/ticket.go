package models

import "time"

// TicketRequest is the support ticket submission body.
type TicketRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Ticket is a support ticket as stored by the backend.
type Ticket struct {
	TicketID  string    `json:"ticketId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// TicketResult is the support endpoint response.
type TicketResult struct {
	Success bool    `json:"success"`
	Ticket  *Ticket `json:"ticket"`
	Message string  `json:"message,omitempty"`
}
