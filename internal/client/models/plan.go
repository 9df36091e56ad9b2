package models

import (
	"strconv"
	"strings"
	"unicode"
)

// Plan categories understood by plan filtering.
const (
	CategoryAll      = "all"
	CategoryPopular  = "popular"
	CategoryData     = "data"
	CategoryValidity = "validity"
)

// Plan is a single recharge offer.
type Plan struct {
	ID          ID       `json:"id"`
	Operator    string   `json:"operator"`
	Price       int      `json:"price"`
	Validity    string   `json:"validity"`
	Data        string   `json:"data"`
	Calls       string   `json:"calls,omitempty"`
	SMS         string   `json:"sms,omitempty"`
	Popular     bool     `json:"popular,omitempty"`
	Category    string   `json:"category,omitempty"`
	Features    []string `json:"features,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ValidityDays parses the leading integer of Validity ("84 Days" -> 84).
func (p Plan) ValidityDays() int {
	n, _ := strconv.Atoi(leadingNumber(p.Validity))
	return n
}

// DataPerDay parses the leading number of Data ("1.5 GB/Day" -> 1.5).
func (p Plan) DataPerDay() float64 {
	f, _ := strconv.ParseFloat(leadingNumber(p.Data), 64)
	return f
}

func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (unicode.IsDigit(rune(s[end])) || s[end] == '.') {
		end++
	}
	return s[:end]
}
