package handler

import (
	"net/http"

	"github.com/portfolio-api/internal/application/upload"
)

// UploadHandler accepts images from the admin editor.
type UploadHandler struct {
	svc upload.Service
}

func NewUploadHandler(svc upload.Service) *UploadHandler { return &UploadHandler{svc: svc} }

// Image reads the multipart "file" field and stores it.
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(upload.MaxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	url, err := h.svc.UploadImage(r.Context(), upload.Input{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadEnvelope{URL: url})
}

// DeleteImage removes an upload by its object key (?key=uploads/...).
func (h *UploadHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteImage(r.Context(), r.URL.Query().Get("key")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "image deleted successfully"})
}
