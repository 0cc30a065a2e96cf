package auth

import (
	"context"
	"errors"
	"net/http"
)

type contextKey string

const (
	UserContextKey contextKey = "auth.user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}
