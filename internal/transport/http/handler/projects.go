package handler

import (
	"net/http"

	"github.com/portfolio-api/internal/application/project"
	"github.com/portfolio-api/internal/domain"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	svc project.Service
}

func NewProjectHandler(svc project.Service) *ProjectHandler { return &ProjectHandler{svc: svc} }

// List honours ?featured=true and ?category=<name>.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProjectFilter{
		FeaturedOnly: q.Get("featured") == "true",
		Category:     q.Get("category"),
	}
	projects, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), projectID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ProjectInput
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

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.svc.Update(r.Context(), projectID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), projectID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "project deleted successfully"})
}
