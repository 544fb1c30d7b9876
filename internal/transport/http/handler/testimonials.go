package handler

import (
	"net/http"

	"github.com/portfolio-api/internal/application/testimonial"
	"github.com/portfolio-api/internal/domain"
)

// TestimonialHandler handles testimonial endpoints.
type TestimonialHandler struct {
	svc testimonial.Service
}

func NewTestimonialHandler(svc testimonial.Service) *TestimonialHandler {
	return &TestimonialHandler{svc: svc}
}

// List honours ?approved=true for the public site.
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.List(r.Context(), r.URL.Query().Get("approved") == "true")
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *TestimonialHandler) Get(w http.ResponseWriter, r *http.Request) {
	testimonialID, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), testimonialID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.TestimonialInput
	if !decodeJSON(w, r, &input) {
		return
	}
	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	testimonialID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateTestimonialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.svc.Update(r.Context(), testimonialID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	testimonialID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), testimonialID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "testimonial deleted successfully"})
}
