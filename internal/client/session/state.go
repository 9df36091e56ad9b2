package session

import "github.com/dmitrijs2005/recharge/internal/client/models"

// State is an immutable snapshot of the session.
type State struct {
	Authenticated bool
	Credential    string
	Principal     *models.Principal
}

// Unauthenticated is the zero session.
var Unauthenticated = State{}

func authenticated(credential string, principal *models.Principal) State {
	p := *principal
	return State{Authenticated: true, Credential: credential, Principal: &p}
}

// Valid reports whether the snapshot respects the session invariants.
func (s State) Valid() bool {
	if s.Authenticated != (s.Credential != "") {
		return false
	}
	return !s.Authenticated || s.Principal != nil
}

func (s State) String() string {
	if !s.Authenticated {
		return "unauthenticated"
	}
	return "authenticated as " + s.Principal.DisplayName()
}
