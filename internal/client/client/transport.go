package client

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/recharge/internal/client/session"
	"github.com/dmitrijs2005/recharge/internal/common"
)

// bearerTransport asks its token source for the credential on every round
// trip. Without a credential the request goes out with no Authorization header.
type bearerTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

type attachedKey struct{}

// attachedCredential is filled in by bearerTransport with the credential it
// sent, empty for an anonymous request.
type attachedCredential struct {
	value string
}

func withAttached(ctx context.Context) (context.Context, *attachedCredential) {
	a := &attachedCredential{}
	return context.WithValue(ctx, attachedKey{}, a), a
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Del(common.AuthorizationHeaderName)

	if t.source != nil {
		tok, err := t.source.Token()
		switch {
		case errors.Is(err, session.ErrNotAuthenticated):
		case err != nil:
			if req.Body != nil {
				_ = req.Body.Close()
			}
			return nil, err
		case tok != nil && tok.AccessToken != "":
			tok.SetAuthHeader(r)
			if a, ok := req.Context().Value(attachedKey{}).(*attachedCredential); ok {
				a.value = tok.AccessToken
			}
		}
	}

	return t.baseTransport().RoundTrip(r)
}

func (t *bearerTransport) baseTransport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}
