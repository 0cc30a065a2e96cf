package static

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/adrianliechti/libretto/pkg/auth"
)

var _ auth.Provider = &Provider{}

// Provider accepts requests carrying a fixed bearer token. An empty token
// accepts everything.
type Provider struct {
	token string
}

func New(token string) (*Provider, error) {
	return &Provider{
		token: token,
	}, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if p.token == "" {
		return ctx, nil
	}

	header := r.Header.Get("Authorization")

	if header == "" {
		return ctx, fmt.Errorf("%w: missing authorization header", auth.ErrUnauthorized)
	}

	token, ok := strings.CutPrefix(header, "Bearer ")

	if !ok {
		return ctx, fmt.Errorf("%w: invalid authorization header", auth.ErrUnauthorized)
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return ctx, fmt.Errorf("%w: invalid token", auth.ErrUnauthorized)
	}

	ctx = context.WithValue(ctx, auth.UserContextKey, "static")

	return ctx, nil
}
