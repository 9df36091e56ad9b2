// Package common contains shared constants and sentinel errors used across
// the recharge client and the development backend.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer credential.
	AuthorizationHeaderName = "Authorization"

	// CredentialStorageKey and PrincipalStorageKey are the metadata keys
	// under which the session is persisted locally. They are always written
	// and removed together.
	CredentialStorageKey = "token"
	PrincipalStorageKey  = "user"
)
