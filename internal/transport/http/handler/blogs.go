package handler

import (
	"net/http"

	"github.com/portfolio-api/internal/application/blog"
	"github.com/portfolio-api/internal/domain"
)

// BlogHandler handles blog endpoints.
type BlogHandler struct {
	svc blog.Service
}

func NewBlogHandler(svc blog.Service) *BlogHandler { return &BlogHandler{svc: svc} }

// List honours ?published=true for the public site.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.svc.List(r.Context(), r.URL.Query().Get("published") == "true")
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Get(r.Context(), blogID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateBlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.svc.Update(r.Context(), blogID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), blogID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "blog deleted successfully"})
}

// SendNewsletter mails a published post to all active subscribers.
func (h *BlogHandler) SendNewsletter(w http.ResponseWriter, r *http.Request) {
	blogID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.SendNewsletter(r.Context(), blogID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
