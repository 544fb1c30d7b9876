package handler

import (
	"net/http"

	"github.com/portfolio-api/internal/application/contact"
	"github.com/portfolio-api/internal/domain"
)

// ContactHandler handles the public contact form and the admin inbox.
type ContactHandler struct {
	svc contact.Service
}

func NewContactHandler(svc contact.Service) *ContactHandler { return &ContactHandler{svc: svc} }

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input domain.ContactInput
	if !decodeJSON(w, r, &input) {
		return
	}
	msg, err := h.svc.Submit(r.Context(), input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(w, r)
	if !ok {
		return
	}
	msg, err := h.svc.Get(r.Context(), contactID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Update toggles the read/responded flags.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.svc.Update(r.Context(), contactID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), contactID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "message deleted successfully"})
}
