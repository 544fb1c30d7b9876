package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/pkg/id"
)

// statusBySentinel is checked in order; the first match wins.
var statusBySentinel = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrDeliveryFailed, http.StatusBadGateway},
}

// httpError maps a service error to a status code and a client-safe message.
// Server-side failures are logged and answered with a generic message.
func httpError(w http.ResponseWriter, err error) {
	for _, m := range statusBySentinel {
		if !errors.Is(err, m.err) {
			continue
		}
		switch m.status {
		case http.StatusNotFound:
			writeError(w, m.status, "not found")
		case http.StatusBadGateway:
			slog.Error("upstream failure", "err", err)
			writeError(w, m.status, "upstream service unavailable, please retry")
		default:
			writeError(w, m.status, publicMessage(err, m.err))
		}
		return
	}
	slog.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// publicMessage drops the trailing sentinel text services append with %w.
func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// pathID returns the {id} URL param, writing a 400 when it is not a ULID so
// malformed ids never reach the database.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	v := chi.URLParam(r, "id")
	if !id.Valid(v) {
		writeError(w, http.StatusBadRequest, "invalid id format")
		return "", false
	}
	return v, true
}
