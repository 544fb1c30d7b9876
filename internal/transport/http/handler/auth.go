package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/portfolio-api/internal/application/auth"
	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/pkg/validate"
	"github.com/portfolio-api/internal/transport/http/middleware"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidOTP         = "Invalid or expired OTP"
)

// CookieOptions controls the session cookie written on sign-in.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// AuthHandler serves the two-step admin sign-in.
type AuthHandler struct {
	svc    auth.Service
	cookie CookieOptions
}

func NewAuthHandler(svc auth.Service, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

type sendOTPRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTP is step one: check the password and email a code. Unknown email and
// wrong password produce the same response.
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.svc.SendOTP(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "OTP sent to email"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, msgInvalidCredentials)
	case errors.Is(err, domain.ErrDeliveryFailed):
		slog.Warn("otp delivery failed", "err", err)
		writeError(w, http.StatusBadGateway, "Could not deliver OTP, please retry")
	default:
		httpError(w, err)
	}
}

// SignIn is step two: all three factors, then the session cookie.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	if err := validate.Struct(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "email, password and otp are required")
		return
	}
	ident, token, err := h.svc.Authorize(r.Context(), creds)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	case errors.Is(err, domain.ErrMissingOTP), errors.Is(err, domain.ErrOTPExpired), errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusUnauthorized, msgInvalidOTP)
		return
	default:
		httpError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, SignInEnvelope{Success: true, User: ident})
}

// SignOut expires the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AuthHandler) SignOut(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "signed out"})
}

// Session reports the identity carried by the current session token.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	resp := SessionEnvelope{User: &domain.Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}}
	if claims.ExpiresAt != nil {
		resp.Expires = claims.ExpiresAt.Time
	}
	writeJSON(w, http.StatusOK, resp)
}
