package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/portfolio-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Errors carry only Message.
type MessageEnvelope struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// SignInEnvelope wraps a successful sign-in. The token itself travels only
// in the session cookie.
type SignInEnvelope struct {
	Success bool             `json:"success"`
	User    *domain.Identity `json:"user"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	User    *domain.Identity `json:"user"`
	Expires time.Time        `json:"expires"`
}

// SubscribeEnvelope wraps newsletter subscribe responses.
type SubscribeEnvelope struct {
	Message    string             `json:"message"`
	Subscriber *domain.Subscriber `json:"subscriber"`
}

// SubscribersEnvelope wraps the admin subscriber listing.
type SubscribersEnvelope struct {
	Count       int                 `json:"count"`
	Subscribers []domain.Subscriber `json:"subscribers"`
}

// UploadEnvelope wraps the public URL of a stored upload.
type UploadEnvelope struct {
	URL string `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// decodeJSON reads a JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
