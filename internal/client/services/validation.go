package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/models"
)

var (
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// FieldError is one failed form check.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed check of a form, in field order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return client.ErrValidation }

// Field returns the message for field, or "".
func (e *ValidationError) Field(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

type checker struct {
	fields []FieldError
}

func (c *checker) fail(field, msg string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

func (c *checker) email(v string) {
	switch {
	case v == "":
		c.fail("email", "Email is required")
	case !emailPattern.MatchString(v):
		c.fail("email", "Email is invalid")
	}
}

func (c *checker) mobile(field, v string) {
	switch {
	case v == "":
		c.fail(field, "Mobile number is required")
	case !mobilePattern.MatchString(v):
		c.fail(field, "Please enter a valid 10-digit mobile number")
	}
}

// ValidMobile reports whether s is a 10-digit Indian mobile number.
func ValidMobile(s string) bool { return mobilePattern.MatchString(s) }

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	var c checker
	c.email(email)
	if password == "" {
		c.fail("password", "Password is required")
	}
	return c.err()
}

// ValidateSignup checks the registration form; confirm is the repeated password.
func ValidateSignup(p models.Profile, confirm string) error {
	var c checker

	switch name := strings.TrimSpace(p.Name); {
	case name == "":
		c.fail("name", "Name is required")
	case len([]rune(name)) < 2:
		c.fail("name", "Name must be at least 2 characters")
	}

	c.email(p.Email)

	switch {
	case p.Phone == "":
		c.fail("phone", "Phone number is required")
	case !mobilePattern.MatchString(p.Phone):
		c.fail("phone", "Please enter a valid 10-digit mobile number")
	}

	switch {
	case p.Password == "":
		c.fail("password", "Password is required")
	case len(p.Password) < 6:
		c.fail("password", "Password must be at least 6 characters")
	}

	switch {
	case confirm == "":
		c.fail("confirmPassword", "Please confirm your password")
	case confirm != p.Password:
		c.fail("confirmPassword", "Passwords do not match")
	}

	return c.err()
}

// RechargeRequest is the recharge form. Payment details are only checked,
// never sent.
type RechargeRequest struct {
	Operator      string
	MobileNumber  string
	Amount        int
	PaymentMethod models.PaymentMethod
	UPIID         string
	CardNumber    string
	Expiry        string
	CVV           string
	Plan          *models.Plan
}

// ValidateRecharge checks the recharge form and the fields its payment
// method requires.
func ValidateRecharge(r RechargeRequest) error {
	var c checker

	c.mobile("mobileNumber", r.MobileNumber)
	if strings.TrimSpace(r.Operator) == "" {
		c.fail("operator", "Please select an operator")
	}
	if r.Amount <= 0 {
		c.fail("amount", "Please select a plan or enter an amount")
	}

	switch r.PaymentMethod {
	case "":
		c.fail("paymentMethod", "Payment method is required")
	case models.PaymentMethodUPI:
		if strings.TrimSpace(r.UPIID) == "" {
			c.fail("upiId", "Please enter your UPI ID")
		}
	case models.PaymentMethodCard:
		switch digits := digitCount(r.CardNumber); {
		case strings.TrimSpace(r.CardNumber) == "":
			c.fail("cardNumber", "Card number is required")
		case digits < 16:
			c.fail("cardNumber", "Please enter a valid card number")
		}
		if strings.TrimSpace(r.Expiry) == "" {
			c.fail("expiryDate", "Please enter expiry date")
		}
		switch {
		case r.CVV == "":
			c.fail("cvv", "CVV is required")
		case len(r.CVV) < 3:
			c.fail("cvv", "Please enter valid CVV")
		}
	case models.PaymentMethodNetBanking, models.PaymentMethodWallet:
	default:
		c.fail("paymentMethod", "Unsupported payment method")
	}

	return c.err()
}

// ValidateTicket checks the support form.
func ValidateTicket(t models.TicketRequest) error {
	var c checker
	if len([]rune(strings.TrimSpace(t.Name))) < 2 {
		c.fail("name", "Name must be at least 2 characters")
	}
	c.email(t.Email)
	if strings.TrimSpace(t.Subject) == "" {
		c.fail("subject", "Subject is required")
	}
	if strings.TrimSpace(t.Message) == "" {
		c.fail("message", "Message is required")
	}
	return c.err()
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
