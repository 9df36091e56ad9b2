package client

import (
	"net/http"
	"strings"
)

// Classification is the outcome of inspecting a response.
type Classification int

const (
	PassThrough Classification = iota
	ExemptAuthFailure
	ForcedLogout
)

func (c Classification) String() string {
	switch c {
	case ExemptAuthFailure:
		return "exempt-auth-failure"
	case ForcedLogout:
		return "forced-logout"
	default:
		return "pass-through"
	}
}

// MatchMode selects how ExemptSet compares paths.
type MatchMode string

const (
	// MatchExact exempts a path equal to a pattern, ignoring the query string
	// and a trailing slash.
	MatchExact MatchMode = "exact"
	// MatchSubstring exempts any path containing a pattern. It over-matches:
	// "/transactions" also covers "/transactions/42".
	MatchSubstring MatchMode = "substring"
)

// ParseMatchMode returns the mode named by s, defaulting to MatchExact.
func ParseMatchMode(s string) MatchMode {
	if MatchMode(strings.ToLower(strings.TrimSpace(s))) == MatchSubstring {
		return MatchSubstring
	}
	return MatchExact
}

type exemptRule struct {
	method string
	path   string
}

// ExemptSet is the set of requests for which a 401 does not end the session.
// A pattern is a path, optionally preceded by an HTTP method
// ("GET /transactions"); without a method it applies to every method.
type ExemptSet struct {
	mode  MatchMode
	rules []exemptRule
}

// NewExemptSet builds an ExemptSet. An unknown mode behaves as MatchExact.
func NewExemptSet(mode MatchMode, patterns ...string) ExemptSet {
	rules := make([]exemptRule, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var r exemptRule
		if method, path, ok := strings.Cut(p, " "); ok {
			r.method, r.path = strings.ToUpper(method), strings.TrimSpace(path)
		} else {
			r.path = p
		}
		rules = append(rules, r)
	}
	return ExemptSet{mode: mode, rules: rules}
}

// DefaultExemptSet exempts login, registration and the history fetch. In
// MatchSubstring mode the history rule carries no method, so creating a
// transaction is exempt too.
func DefaultExemptSet(mode MatchMode) ExemptSet {
	if mode == MatchSubstring {
		return NewExemptSet(mode, PathLogin, PathRegister, PathTransactions)
	}
	return NewExemptSet(mode, PathLogin, PathRegister, http.MethodGet+" "+PathTransactions)
}

// Mode returns the match mode.
func (e ExemptSet) Mode() MatchMode {
	if e.mode == MatchSubstring {
		return MatchSubstring
	}
	return MatchExact
}

// Patterns returns the set in its textual form.
func (e ExemptSet) Patterns() []string {
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		if r.method != "" {
			out[i] = r.method + " " + r.path
		} else {
			out[i] = r.path
		}
	}
	return out
}

// Contains reports whether a request with method and path is exempt.
func (e ExemptSet) Contains(method, path string) bool {
	method = strings.ToUpper(method)
	exact := e.Mode() == MatchExact
	if exact {
		path = normalizePath(path)
	}

	for _, r := range e.rules {
		if r.method != "" && r.method != method {
			continue
		}
		if exact && path == normalizePath(r.path) {
			return true
		}
		if !exact && strings.Contains(path, r.path) {
			return true
		}
	}
	return false
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Classify decides what a response means for the session. It has no side
// effects.
func Classify(status int, method, path string, exempt ExemptSet) Classification {
	if status != http.StatusUnauthorized {
		return PassThrough
	}
	if exempt.Contains(method, path) {
		return ExemptAuthFailure
	}
	return ForcedLogout
}
