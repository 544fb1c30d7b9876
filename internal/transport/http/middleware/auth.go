package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/portfolio-api/internal/infrastructure/jwt"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// TokenFromRequest reads the session token from the named cookie, falling
// back to an Authorization: Bearer header.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// Session verifies the session token when one is present and injects its
// claims into the request context. It never rejects a request: missing,
// invalid and expired tokens simply leave the context without claims.
func Session(verifier TokenVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r, cookieName)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *jwtinfra.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext extracts session claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok && c != nil
}
