// Package plans serves the recharge plan catalog of the development backend.
package plans

// Plan is a recharge offer as served to clients.
type Plan struct {
	ID          int      `json:"id"`
	Price       int      `json:"price"`
	Validity    string   `json:"validity"`
	Data        string   `json:"data"`
	Calls       string   `json:"calls"`
	SMS         string   `json:"sms"`
	Popular     bool     `json:"popular,omitempty"`
	Operator    string   `json:"operator"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
	Description string   `json:"description"`
}
