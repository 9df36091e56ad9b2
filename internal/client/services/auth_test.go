package services

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/session"
	"github.com/dmitrijs2005/recharge/internal/common"
)

var testUser = &models.Principal{ID: "u1", Email: "user@test.com", Name: "Test User"}

func newAuth(t *testing.T, api client.API, verifier IDTokenVerifier) (AuthService, *session.Store, *sql.DB) {
	t.Helper()
	db := setupDB(t)
	store := session.NewStore(session.NewSQLStorage(db), nil)
	return NewAuthService(api, store, verifier, nil), store, db
}

func TestLogin_Success_EstablishesAndPersists(t *testing.T) {
	api := &fakeAPI{LoginRes: &models.AuthResult{Token: "tok-abc", User: testUser}}
	svc, store, db := newAuth(t, api, nil)

	p, err := svc.Login(context.Background(), "user@test.com", "validPass1")
	require.NoError(t, err)
	assert.Equal(t, testUser, p)
	assert.Equal(t, models.Credentials{Email: "user@test.com", Password: "validPass1"}, api.LastCreds)

	st := store.Snapshot()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "tok-abc", st.Credential)

	tok, ok := storedValue(t, db, common.CredentialStorageKey)
	require.True(t, ok)
	assert.Equal(t, "tok-abc", tok)

	raw, ok := storedValue(t, db, common.PrincipalStorageKey)
	require.True(t, ok)
	var stored models.Principal
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, *testUser, stored)
}

func TestLogin_Failure_LeavesSessionUnchanged(t *testing.T) {
	t.Run("from unauthenticated", func(t *testing.T) {
		api := &fakeAPI{LoginErr: &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials", Path: client.PathLogin}}
		svc, store, _ := newAuth(t, api, nil)

		_, err := svc.Login(context.Background(), "user@test.com", "wrong")
		require.ErrorIs(t, err, client.ErrUnauthorized)
		assert.Equal(t, "Invalid credentials", Message(err, "Login failed"))
		assert.False(t, store.Authenticated())
	})

	t.Run("from authenticated", func(t *testing.T) {
		api := &fakeAPI{LoginErr: &client.APIError{Status: http.StatusUnauthorized, Path: client.PathLogin}}
		svc, store, db := newAuth(t, api, nil)
		require.NoError(t, store.Establish(context.Background(), "T1", testUser))

		_, err := svc.Login(context.Background(), "other@test.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Login failed", Message(err, "Login failed"))
		assert.Equal(t, "T1", store.Snapshot().Credential)
		tok, _ := storedValue(t, db, common.CredentialStorageKey)
		assert.Equal(t, "T1", tok)
	})
}

func TestLogin_MessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"network beats everything", &client.NetworkError{Code: "ECONNREFUSED", Path: client.PathLogin, Err: errors.New("dial")}, MsgNetworkError},
		{"timeout", &client.NetworkError{Code: "ETIMEDOUT", Path: client.PathLogin, Err: errors.New("deadline")}, MsgTimeout},
		{"backend message", &client.APIError{Status: 400, Message: "User not found", Path: client.PathLogin}, "User not found"},
		{"generic fallback", &client.APIError{Status: 500, Path: client.PathLogin}, "Login failed"},
		{"malformed", client.ErrMalformedResponse, "Login failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newAuth(t, &fakeAPI{LoginErr: tt.err}, nil)
			_, err := svc.Login(context.Background(), "user@test.com", "pw")
			require.Error(t, err)
			assert.Equal(t, tt.want, Message(err, "Login failed"))
		})
	}
}

func TestLogin_ResponseWithoutCredentialFails(t *testing.T) {
	api := &fakeAPI{LoginRes: &models.AuthResult{User: testUser}}
	svc, store, _ := newAuth(t, api, nil)

	_, err := svc.Login(context.Background(), "user@test.com", "pw")
	require.ErrorIs(t, err, client.ErrMalformedResponse)
	assert.False(t, store.Authenticated())

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeLoginFailed, oopsErr.Code())
}

func TestSignup_ChainsRegisterAndLogin(t *testing.T) {
	api := &fakeAPI{LoginRes: &models.AuthResult{Token: "tok-new", User: testUser}}
	svc, store, _ := newAuth(t, api, nil)

	p, err := svc.Signup(context.Background(), models.Profile{Name: "Test User", Email: "user@test.com", Phone: "9876543210", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, p.ID)
	assert.Equal(t, []string{"register", "login"}, api.Calls())
	assert.Equal(t, "user", api.LastProfile.Role)
	assert.Equal(t, models.Credentials{Email: "user@test.com", Password: "pw123456"}, api.LastCreds)
	assert.Equal(t, "tok-new", store.Snapshot().Credential)
}

func TestSignup_LoginAfterRegistrationFails(t *testing.T) {
	api := &fakeAPI{LoginErr: &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials", Path: client.PathLogin}}
	svc, store, db := newAuth(t, api, nil)

	p, err := svc.Signup(context.Background(), models.Profile{Name: "A B", Email: "a@b.com", Phone: "9876543210", Password: "pw123456"})
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Equal(t, []string{"register", "login"}, api.Calls())
	assert.False(t, store.Authenticated())
	_, ok := storedValue(t, db, common.CredentialStorageKey)
	assert.False(t, ok)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeSignupFailed, oopsErr.Code())
	assert.Equal(t, true, oopsErr.Context()["registered"])
}

func TestSignup_RegistrationFailureSkipsLogin(t *testing.T) {
	api := &fakeAPI{RegisterErr: &client.APIError{Status: http.StatusBadRequest, Message: "User already exists", Path: client.PathRegister}}
	svc, store, _ := newAuth(t, api, nil)

	_, err := svc.Signup(context.Background(), models.Profile{Email: "a@b.com", Password: "pw123456"})
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "User already exists", Message(err, "Signup failed"))
	assert.Equal(t, []string{"register"}, api.Calls())
	assert.False(t, store.Authenticated())
}

func TestLogout_TwiceIsNoop(t *testing.T) {
	api := &fakeAPI{LoginRes: &models.AuthResult{Token: "T1", User: testUser}}
	svc, store, db := newAuth(t, api, nil)
	ctx := context.Background()

	_, err := svc.Login(ctx, "user@test.com", "pw")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.Logout(ctx))
		assert.False(t, store.Authenticated())
		_, ok := storedValue(t, db, common.CredentialStorageKey)
		assert.False(t, ok)
		_, ok = storedValue(t, db, common.PrincipalStorageKey)
		assert.False(t, ok)
	}
	assert.Equal(t, []string{"login"}, api.Calls())
}

func TestRestore_OptimisticWithoutBackendCall(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, session.NewSQLStorage(db).Save(context.Background(), "T1", testUser))

	api := &fakeAPI{}
	store := session.NewStore(session.NewSQLStorage(db), nil)
	svc := NewAuthService(api, store, nil, nil)

	st := svc.Restore(context.Background())
	assert.True(t, st.Authenticated)
	assert.Equal(t, "T1", st.Credential)
	assert.Equal(t, testUser, st.Principal)
	assert.Equal(t, st, svc.Current())
	assert.Empty(t, api.Calls())
}

func TestRestore_CorruptDataIsEvicted(t *testing.T) {
	db := setupDB(t)
	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES ('token', 'T1'), ('user', '{oops')`)
	require.NoError(t, err)

	svc := NewAuthService(&fakeAPI{}, session.NewStore(session.NewSQLStorage(db), nil), nil, nil)
	st := svc.Restore(context.Background())
	assert.False(t, st.Authenticated)

	_, ok := storedValue(t, db, common.CredentialStorageKey)
	assert.False(t, ok)
}

// ---- federated ----

const (
	testIssuer   = "https://accounts.example.test"
	testClientID = "recharge-cli.apps.example.test"
)

func newTestVerifier(t *testing.T) (*oidc.IDTokenVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ks := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	return oidc.NewVerifier(testIssuer, ks, &oidc.Config{ClientID: testClientID}), key
}

func mintIDToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	base := jwt.MapClaims{
		"iss": testIssuer,
		"aud": testClientID,
		"sub": "google-123",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range claims {
		base[k] = v
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, base).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestFederatedLogin_ExchangesVerifiedIdentity(t *testing.T) {
	verifier, key := newTestVerifier(t)
	api := &fakeAPI{FederatedRes: &models.AuthResult{Token: "tok-g", User: testUser}}
	svc, store, _ := newAuth(t, api, verifier)

	raw := mintIDToken(t, key, jwt.MapClaims{"email": "g@example.com", "name": "G User", "picture": "https://img/x.png"})
	p, err := svc.FederatedLogin(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, testUser.ID, p.ID)
	assert.Equal(t, models.FederatedIdentity{ExternalID: "google-123", Email: "g@example.com", Name: "G User", Avatar: "https://img/x.png"}, api.LastIdentity)
	assert.Equal(t, "tok-g", store.Snapshot().Credential)
}

func TestFederatedLogin_RejectsBadTokens(t *testing.T) {
	verifier, key := newTestVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong audience", mintIDToken(t, key, jwt.MapClaims{"aud": "someone-else", "email": "g@example.com"})},
		{"expired", mintIDToken(t, key, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix(), "email": "g@example.com"})},
		{"foreign key", mintIDToken(t, otherKey, jwt.MapClaims{"email": "g@example.com"})},
		{"no email", mintIDToken(t, key, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			svc, store, _ := newAuth(t, api, verifier)

			_, err := svc.FederatedLogin(context.Background(), tt.raw)
			require.Error(t, err)
			assert.Empty(t, api.Calls())
			assert.False(t, store.Authenticated())
			assert.Equal(t, "Google login failed", Message(err, "Google login failed"))
		})
	}
}

func TestFederatedLogin_Disabled(t *testing.T) {
	svc, _, _ := newAuth(t, &fakeAPI{}, nil)
	_, err := svc.FederatedLogin(context.Background(), "x")
	require.ErrorIs(t, err, ErrFederatedDisabled)
}

func TestFederatedLogin_ExchangeRejected(t *testing.T) {
	verifier, key := newTestVerifier(t)
	api := &fakeAPI{FederatedErr: &client.APIError{Status: http.StatusUnauthorized, Message: "Google account not allowed", Path: client.PathFederatedLogin}}
	svc, store, _ := newAuth(t, api, verifier)

	_, err := svc.FederatedLogin(context.Background(), mintIDToken(t, key, jwt.MapClaims{"email": "g@example.com"}))
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "Google account not allowed", Message(err, "Google login failed"))
	assert.False(t, store.Authenticated())
}
