package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness ("ping") and readiness ("ready") checks.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler accepts a nil store, in which case "ready" behaves like "ping".
func NewHealthHandler(store Pinger) *HealthHandler { return &HealthHandler{store: store} }

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		if h.store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := h.store.Ping(ctx); err != nil {
				slog.Error("readiness check failed", "err", err)
				writeError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ready"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
