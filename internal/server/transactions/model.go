// Package transactions records simulated recharges for the development
// backend.
package transactions

import (
	"encoding/json"
	"time"
)

// Transaction is a recharge record. Plan is stored as sent by the client.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Operator      string          `json:"operator"`
	MobileNumber  string          `json:"mobileNumber"`
	Amount        int             `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId"`
	Plan          json.RawMessage `json:"plan,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}
