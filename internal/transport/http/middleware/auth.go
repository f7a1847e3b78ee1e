package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// SessionCookie carries the signed session token.
const SessionCookie = "session"

type sessionValidator interface {
	Validate(ctx context.Context, token string) (*domain.Identity, error)
}

// Auth returns middleware that validates the session cookie and injects the
// caller's Identity into the request context.
func Auth(sessions sessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			ident, err := sessions.Validate(r.Context(), c.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
					return
				}
				slog.ErrorContext(r.Context(), "session validation failed", "err", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// WithIdentity stores ident in ctx.
func WithIdentity(ctx context.Context, ident *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext extracts the authenticated caller from the request context.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*domain.Identity)
	return ident, ok && ident != nil
}
