package http

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-api/internal/pkg/emails"
	appmiddleware "github.com/portfolio-api/internal/transport/http/middleware"
)

// mountPages serves the prebuilt sign-in page, admin shell and unsubscribe
// page from dir. Every /admin route gets the same shell; the client router
// takes over.
func mountPages(r chi.Router, dir string) {
	signin := filepath.Join(dir, "signin.html")
	admin := filepath.Join(dir, "admin.html")
	unsubscribe := filepath.Join(dir, "unsubscribe.html")
	serve := func(file string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) { http.ServeFile(w, r, file) }
	}

	r.Get(appmiddleware.SignInPath, serve(signin))
	r.Get(appmiddleware.AdminHomePath, serve(admin))
	r.Get(appmiddleware.AdminHomePath+"/*", serve(admin))
	r.Get(emails.UnsubscribePagePath, serve(unsubscribe))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(dir, "assets")))))
}
