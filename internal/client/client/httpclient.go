package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/recharge/internal/logging"
)

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

const maxResponseBody = 4 << 20

// Session is the part of the session store the client needs: the live
// credential and the ability to drop it.
type Session interface {
	oauth2.TokenSource
	Clear(ctx context.Context) (bool, error)
	// ClearIfCurrent clears only while credential is still the live one
	// (or nothing is live). superseded reports a session kept because a
	// newer credential replaced the rejected one.
	ClearIfCurrent(ctx context.Context, credential string) (was, superseded bool, err error)
}

// Navigator receives the "go to the unauthenticated entry point" signal.
type Navigator interface {
	ToEntryPoint(ctx context.Context, reason string)
}

// NavigatorFunc adapts a func to Navigator.
type NavigatorFunc func(ctx context.Context, reason string)

func (f NavigatorFunc) ToEntryPoint(ctx context.Context, reason string) { f(ctx, reason) }

// Options configures New.
type Options struct {
	BaseURL string
	// Timeout per request. Zero means DefaultTimeout.
	Timeout time.Duration
	// Session supplies the credential and is cleared on forced logout.
	// Nil means requests are always anonymous and no logout is applied.
	Session Session
	// Exempt overrides DefaultExemptSet(MatchExact).
	Exempt *ExemptSet
	// Navigator is signalled once per response that forces a logout.
	Navigator Navigator
	Logger    logging.Logger
	// Transport is the underlying round tripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// HTTPClient sends JSON requests to the backend and enforces the session
// policy on every response.
type HTTPClient struct {
	baseURL   string
	timeout   time.Duration
	session   Session
	exempt    ExemptSet
	navigator Navigator
	logger    logging.Logger
	http      *http.Client
}

// New builds an HTTPClient. It performs no I/O.
func New(opts Options) *HTTPClient {
	c := &HTTPClient{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		timeout:   opts.Timeout,
		session:   opts.Session,
		navigator: opts.Navigator,
		logger:    opts.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if opts.Exempt != nil {
		c.exempt = *opts.Exempt
	} else {
		c.exempt = DefaultExemptSet(MatchExact)
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}

	var source oauth2.TokenSource
	if opts.Session != nil {
		source = opts.Session
	}
	c.http = &http.Client{
		Transport: &bearerTransport{source: source, base: opts.Transport},
	}
	return c
}

// BaseURL returns the backend origin.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout.
func (c *HTTPClient) Timeout() time.Duration { return c.timeout }

// Exempt returns the exempt endpoint set.
func (c *HTTPClient) Exempt() ExemptSet { return c.exempt }

// Do sends body (JSON encoded when non-nil) and decodes a 2xx response into
// out when out is non-nil. out may be a *json.RawMessage to defer decoding.
//
// A 401 from a non-exempt path clears the session and signals the
// Navigator before Do returns the *APIError, unless the credential it
// rejected has already been replaced by a newer login.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	reqCtx, attached := withAttached(reqCtx)

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug(ctx, "api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, "network").Inc()
		nerr := newNetworkError(path, err)
		c.logger.Warn(ctx, "api request failed", "method", method, "path", path, "code", nerr.Code, "error", err)
		return nerr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		requestsTotal.WithLabelValues(method, "network").Inc()
		return newNetworkError(path, err)
	}

	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug(ctx, "api response", "method", method, "path", path, "status", resp.StatusCode)

	switch Classify(resp.StatusCode, method, path, c.exempt) {
	case ForcedLogout:
		// Eviction errors are logged inside; the caller still gets the 401.
		_ = c.rejectCredential(context.WithoutCancel(ctx), path, attached.value)
	case ExemptAuthFailure:
		exemptAuthFailuresTotal.Inc()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data), Path: path}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

// ApplyForcedLogout clears the session, evicts its durable copy and signals
// the Navigator. It is safe to call any number of times, concurrently; each
// call signals exactly once.
func (c *HTTPClient) ApplyForcedLogout(ctx context.Context, path string) error {
	forcedLogoutsTotal.Inc()

	var err error
	if c.session != nil {
		var was bool
		was, err = c.session.Clear(ctx)
		c.logSessionEnded(ctx, path, was, err)
	}
	c.signalEntryPoint(ctx)
	return err
}

// rejectCredential is ApplyForcedLogout for a 401 to a request that carried
// credential. A rejection that arrives after a newer login leaves that
// session alone and does not signal.
func (c *HTTPClient) rejectCredential(ctx context.Context, path, credential string) error {
	if c.session == nil {
		forcedLogoutsTotal.Inc()
		c.signalEntryPoint(ctx)
		return nil
	}

	was, superseded, err := c.session.ClearIfCurrent(ctx, credential)
	if superseded {
		c.logger.Info(ctx, "ignoring 401 for a replaced credential", "path", path)
		return nil
	}
	forcedLogoutsTotal.Inc()
	c.logSessionEnded(ctx, path, was, err)
	c.signalEntryPoint(ctx)
	return err
}

func (c *HTTPClient) logSessionEnded(ctx context.Context, path string, was bool, err error) {
	c.logger.Warn(ctx, "session ended by server", "path", path, "was_authenticated", was)
	if err != nil {
		logging.LogError(ctx, c.logger, "failed to evict stored session", err)
	}
}

func (c *HTTPClient) signalEntryPoint(ctx context.Context) {
	if c.navigator != nil {
		c.navigator.ToEntryPoint(ctx, "session expired")
	}
}

// errorMessage extracts {"message": "..."} from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
