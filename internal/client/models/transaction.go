package models

import (
	"encoding/json"
	"time"
)

// PaymentMethod is the simulated payment instrument of a recharge.
type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetBanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

// Operator is encoded as a plain name. Decoding also accepts an object
// with a "name" (or "id") field, which is how history records carry it.
type Operator string

func (o *Operator) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = Operator(s)
		return nil
	}
	var obj struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.Name != "" {
		*o = Operator(obj.Name)
	} else {
		*o = Operator(obj.ID)
	}
	return nil
}

// Transaction is a recharge record.
type Transaction struct {
	ID            ID            `json:"id,omitempty"`
	Operator      Operator      `json:"operator"`
	MobileNumber  string        `json:"mobileNumber"`
	Amount        int           `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TransactionID string        `json:"transactionId"`
	Plan          *Plan         `json:"plan,omitempty"`
	Status        string        `json:"status,omitempty"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
}

// Timestamp returns CreatedAt, which history sorting keys on.
func (t Transaction) Timestamp() time.Time {
	return t.CreatedAt
}
