package models

import "encoding/json"

// Principal is the authenticated user's profile as returned by the backend.
// The client treats it as opaque beyond existence checks.
type Principal struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Role   string `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// UnmarshalJSON accepts both "id" and the document-store style "_id".
func (p *Principal) UnmarshalJSON(b []byte) error {
	type plain Principal
	var raw struct {
		plain
		AltID ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Principal(raw.plain)
	if p.ID == "" {
		p.ID = raw.AltID
	}
	return nil
}

// DisplayName returns the name, falling back to the email.
func (p *Principal) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// AuthResult is the body returned by every endpoint that issues a credential.
type AuthResult struct {
	Token string     `json:"token"`
	User  *Principal `json:"user"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the registration request body.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// FederatedIdentity carries the identity claimed by an external provider
// and is posted to the token exchange endpoint.
type FederatedIdentity struct {
	ExternalID string `json:"googleId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
}
