package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/sup/internal/shared/apperror"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const identityKey contextKey = "identity"

const challenge = `Basic realm="sup"`

// Middleware wraps a handler with HTTP Basic authentication
type Middleware func(http.Handler) http.Handler

// FromContext extracts the authenticated identity from the request context
func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// NewMiddleware creates middleware that authenticates every request with HTTP
// Basic credentials and adds the resolved identity to the request context.
// Missing or invalid credentials produce a 401 with a realm challenge.
func NewMiddleware(service servicer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r)
				return
			}

			identity, err := service.Authenticate(r.Context(), username, password)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					hlog.FromRequest(r).Warn().Str("username", username).Msg("Authentication failed")
					unauthorized(w, r)
					return
				}
				apperror.Write(w, r, apperror.NewInternal(err))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", challenge)
	apperror.Write(w, r, apperror.NewAuth("Unauthorized"))
}
