package middleware

import (
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/audit"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
)

// RequireRole returns middleware that allows access only to identities whose
// role is one of allowed. Denials are recorded on rec.
func RequireRole(rec audit.Recorder, allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range allowed {
				if ident.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			rec.Record(r.Context(), audit.Event{
				Type:   audit.AccessDenied,
				UserID: ident.UserID,
				IP:     ClientIP(r),
				Detail: r.Method + " " + r.URL.Path,
			})
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}
