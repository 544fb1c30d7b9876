package middleware

import (
	"log/slog"
	"net/http"
	"slices"
)

// RequireRole gates API routes on the session role. Unlike Guard, which
// redirects browsers, it answers 401 without a session and 403 for any role
// outside allowedRoles.
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !slices.Contains(allowedRoles, claims.Role) {
				slog.Warn("role denied", "account_id", claims.Subject, "role", claims.Role, "path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
