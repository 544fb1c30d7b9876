package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/portfolio-api/internal/domain"
	jwtinfra "github.com/portfolio-api/internal/infrastructure/jwt"
)

const (
	SignInPath    = "/signin"
	AdminHomePath = "/admin"
)

// ProtectedPrefixes are the path trees only admins may reach.
var ProtectedPrefixes = []string{"/admin", "/api/admin"}

// Decision is the outcome of the route guard for one request. Location is
// set only when Allow is false.
type Decision struct {
	Allow    bool
	Location string
}

func allow() Decision                     { return Decision{Allow: true} }
func redirectTo(location string) Decision { return Decision{Location: location} }

// Decide maps a request path and its verified claims (nil when the caller has
// no valid session) to allow or redirect.
func Decide(path string, claims *jwtinfra.Claims) Decision {
	isAdmin := claims != nil && claims.Role == domain.RoleAdmin

	if path == SignInPath {
		if isAdmin {
			return redirectTo(AdminHomePath)
		}
		return allow()
	}
	if !isProtected(path) {
		return allow()
	}
	if !isAdmin {
		return redirectTo(SignInPath + "?" + url.Values{"callbackUrl": {path}}.Encode())
	}
	return allow()
}

// isProtected matches whole path segments, so "/administrator" is public.
func isProtected(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Guard enforces Decide on every request. It must run after Session so the
// claims, if any, are already in the context.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		d := Decide(r.URL.Path, claims)
		if !d.Allow {
			http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
