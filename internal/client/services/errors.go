package services

import (
	"errors"

	"github.com/dmitrijs2005/recharge/internal/client/client"
)

// Error codes attached with oops.
const (
	CodeRestoreFailed    = "AUTH_RESTORE_FAILED"
	CodeLoginFailed      = "AUTH_LOGIN_FAILED"
	CodeSignupFailed     = "AUTH_SIGNUP_FAILED"
	CodeFederatedFailed  = "AUTH_FEDERATED_FAILED"
	CodeLogoutFailed     = "AUTH_LOGOUT_FAILED"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodePlansFailed      = "PLANS_FAILED"
	CodeRechargeFailed   = "RECHARGE_FAILED"
	CodeHistoryFailed    = "HISTORY_FAILED"
	CodeTicketFailed     = "TICKET_FAILED"
)

// User-facing messages for transport failures.
const (
	MsgNetworkError = "Network error - please check if the server is running"
	MsgTimeout      = "Request timed out - the server took too long to respond"
)

// Message turns err into the text shown to the user. A transport failure
// wins over anything else, then form validation, then the backend's own
// message; otherwise fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var nerr *client.NetworkError
	if errors.As(err, &nerr) {
		if errors.Is(err, client.ErrTimeout) {
			return MsgTimeout
		}
		return MsgNetworkError
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var fail *failureError
	if errors.As(err, &fail) && fail.msg != "" {
		return fail.msg
	}

	return fallback
}

// failureError carries a message the backend reported inside a 2xx body.
type failureError struct {
	msg string
}

func (e *failureError) Error() string {
	if e.msg == "" {
		return "request was not accepted"
	}
	return e.msg
}
