package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

var (
	ErrUnavailable       = errors.New("server unreachable")
	ErrTimeout           = errors.New("request timed out")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("request rejected")
	ErrServer            = errors.New("server error")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx response. Message is the backend's "message" field
// when the body carried one.
type APIError struct {
	Status  int
	Message string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Path, e.Status, http.StatusText(e.Status))
}

// Unwrap maps the status onto the sentinel taxonomy.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status >= 500:
		return ErrServer
	default:
		return ErrValidation
	}
}

// NetworkError is a request that never produced a response. Code is a short
// machine-readable reason such as ECONNREFUSED or ETIMEDOUT.
type NetworkError struct {
	Code string
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.kind(), e.Code)
}

func (e *NetworkError) Unwrap() []error {
	return []error{e.kind(), e.Err}
}

func (e *NetworkError) kind() error {
	if e.Code == "ETIMEDOUT" {
		return ErrTimeout
	}
	return ErrUnavailable
}

func newNetworkError(path string, err error) *NetworkError {
	return &NetworkError{Code: networkCode(err), Path: path, Err: err}
}

func networkCode(err error) string {
	var (
		dnsErr *net.DNSError
		netErr net.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "ETIMEDOUT"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "ETIMEDOUT"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.As(err, &dnsErr):
		return "ENOTFOUND"
	default:
		return "ERR_NETWORK"
	}
}
