package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexanderramin/revint/internal/logging"
)

// Credentials decorates an outgoing request with authentication.
type Credentials interface {
	Apply(ctx context.Context, req *http.Request) error
}

// TokenSource yields the current bearer token, "" when there is none.
// session.Store satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// BearerToken reads the token from Tokens on every request so a login or
// logout elsewhere takes effect immediately.
type BearerToken struct {
	Tokens TokenSource
}

func (b BearerToken) Apply(ctx context.Context, req *http.Request) error {
	if b.Tokens == nil {
		return nil
	}
	token, err := b.Tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading session token: %w", err)
	}
	if token == "" {
		log := logging.Component("api")
		log.Warn().
			Str("path", req.URL.Path).
			Msg("no session token, sending request unauthenticated")
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// APIKey authenticates with a static key in the X-API-Key header.
type APIKey struct {
	Key string
}

func (k APIKey) Apply(_ context.Context, req *http.Request) error {
	req.Header.Set("X-API-Key", k.Key)
	return nil
}
