// Package client is the single choke point between the recharge client and
// its REST backend.
//
// # Overview
//
// HTTPClient sends every request. A bearer credential is attached by the
// transport, which reads it from the session store at send time, so a
// request that is sent after a forced logout goes out without it.
//
// Every response goes through Classify, a pure function of status code,
// request method and path, and the exempt endpoint set:
//
//   - PassThrough: anything that is not a 401.
//   - ExemptAuthFailure: a 401 from an exempt endpoint (login, registration,
//     the history fetch). The caller gets the error; the session is untouched.
//   - ForcedLogout: a 401 from any other endpoint. HTTPClient then runs
//     ApplyForcedLogout, which clears the session, evicts the stored copy
//     and signals the Navigator once for that response.
//
// # Error Handling
//
// Transport failures are *NetworkError values wrapping ErrUnavailable or
// ErrTimeout. Non-2xx responses are *APIError values wrapping
// ErrUnauthorized, ErrValidation or ErrServer. Undecodable bodies wrap
// ErrMalformedResponse. Match with errors.Is / errors.As.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. Concurrent forced logouts are
// harmless: clearing is idempotent and each failing response signals once.
// Nothing is retried.
//
// See Also
//
//   - HTTP client:  HTTPClient, New, Options
//   - Endpoints:    API (Login, Register, ListPlans, ...)
//   - Classifier:   Classify, ExemptSet
//   - DB helpers:   InitDatabase, RunMigrations
package client
