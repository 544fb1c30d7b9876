package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal error")
)

// Admin sign-in failures. Handlers collapse these into two user-visible
// messages and never reveal which factor failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingOTP         = errors.New("otp not issued")
	ErrOTPExpired         = errors.New("otp expired")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrDeliveryFailed     = errors.New("otp delivery failed")
)
