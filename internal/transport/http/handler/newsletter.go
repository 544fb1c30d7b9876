package handler

import (
	"net/http"

	"github.com/portfolio-api/internal/application/newsletter"
	"github.com/portfolio-api/internal/domain"
)

// NewsletterHandler handles newsletter subscription endpoints.
type NewsletterHandler struct {
	svc newsletter.Service
}

func NewNewsletterHandler(svc newsletter.Service) *NewsletterHandler {
	return &NewsletterHandler{svc: svc}
}

// Subscribe answers 201 for a new subscriber and 200 when a previously
// unsubscribed address is reactivated.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, created, err := h.svc.Subscribe(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	if created {
		writeJSON(w, http.StatusCreated, SubscribeEnvelope{Message: "successfully subscribed to the newsletter", Subscriber: sub})
		return
	}
	writeJSON(w, http.StatusOK, SubscribeEnvelope{Message: "welcome back! your subscription has been reactivated", Subscriber: sub})
}

// Unsubscribe takes {email, token} as a JSON body only, so the token never
// appears in a request line.
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.UnsubscribeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Unsubscribe(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "you have been unsubscribed"})
}

func (h *NewsletterHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListActive(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SubscribersEnvelope{Count: len(subs), Subscribers: subs})
}

func (h *NewsletterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *NewsletterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subscriberID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), subscriberID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "subscriber deleted successfully"})
}
