// Package session owns the client's authentication state.
//
// A Store is the single owner of the current credential and principal.
// It keeps the in-memory state and the durable copy (see Storage) in step,
// exposes immutable snapshots to readers, acts as an oauth2.TokenSource for
// the HTTP transport and publishes every state change to subscribers.
//
// States are Unauthenticated and Authenticated. Authenticated holds iff the
// credential is non-empty, and a principal is always present alongside it.
package session
