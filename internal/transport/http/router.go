package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/portfolio-api/internal/application/auth"
	"github.com/portfolio-api/internal/application/blog"
	"github.com/portfolio-api/internal/application/contact"
	"github.com/portfolio-api/internal/application/dashboard"
	"github.com/portfolio-api/internal/application/newsletter"
	"github.com/portfolio-api/internal/application/project"
	"github.com/portfolio-api/internal/application/testimonial"
	"github.com/portfolio-api/internal/application/upload"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/transport/http/handler"
	appmiddleware "github.com/portfolio-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Every request: read the session if any, then apply the route guard.
	r.Use(appmiddleware.Session(deps.JWTProvider, cfg.SessionCookieName))
	r.Use(appmiddleware.Guard)

	// 5 requests/second, burst of 10, applied to sign-in and public forms.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Mailer:      deps.Mailer,
		Signer:      deps.JWTProvider,
		Templates:   deps.Templates,
		OTPTTL:      cfg.OTPTTL,
	})
	blogSvc := blog.NewService(blog.ServiceDeps{
		BlogRepo:       deps.BlogRepo,
		SubscriberRepo: deps.SubscriberRepo,
		Mailer:         deps.Mailer,
		Templates:      deps.Templates,
		Author:         cfg.BlogAuthor,
	})
	projectSvc := project.NewService(deps.ProjectRepo)
	testimonialSvc := testimonial.NewService(deps.TestimonialRepo)
	contactSvc := contact.NewService(contact.ServiceDeps{
		ContactRepo: deps.ContactRepo,
		Mailer:      deps.Mailer,
		Alerter:     deps.Alerter,
		Templates:   deps.Templates,
		AdminEmail:  cfg.AdminEmail,
	})
	newsletterSvc := newsletter.NewService(newsletter.ServiceDeps{
		SubscriberRepo: deps.SubscriberRepo,
		Mailer:         deps.Mailer,
		Alerter:        deps.Alerter,
		Templates:      deps.Templates,
		SiteName:       cfg.SiteName,
		AdminEmail:     cfg.AdminEmail,
	})
	dashboardSvc := dashboard.NewService(dashboard.ServiceDeps{
		BlogRepo:        deps.BlogRepo,
		TestimonialRepo: deps.TestimonialRepo,
		ContactRepo:     deps.ContactRepo,
		SubscriberRepo:  deps.SubscriberRepo,
	})
	uploadSvc := upload.NewService(deps.S3Store)

	var pinger handler.Pinger
	if deps.AccountRepo != nil {
		pinger = deps.AccountRepo
	}
	healthH := handler.NewHealthHandler(pinger)
	authH := handler.NewAuthHandler(authSvc, handler.CookieOptions{
		Name:   cfg.SessionCookieName,
		MaxAge: deps.JWTProvider.Expiry(),
		Secure: cfg.IsProduction(),
	})
	blogH := handler.NewBlogHandler(blogSvc)
	projectH := handler.NewProjectHandler(projectSvc)
	testimonialH := handler.NewTestimonialHandler(testimonialSvc)
	contactH := handler.NewContactHandler(contactSvc)
	newsletterH := handler.NewNewsletterHandler(newsletterSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	uploadH := handler.NewUploadHandler(uploadSvc)

	r.Get("/health-check/{action}", healthH.Ping)
	r.Post("/health-check/{action}", healthH.Ping)

	r.Route("/api", func(r chi.Router) {
		// ── Auth ─────────────────────────────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/auth/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/signin", authH.SignIn)
		r.Post("/auth/signout", authH.SignOut)
		r.Get("/auth/session", authH.Session)

		// ── Public routes ────────────────────────────────────────────────────
		r.Get("/blogs", blogH.List)
		r.Get("/blogs/{id}", blogH.Get)
		r.Get("/projects", projectH.List)
		r.Get("/projects/{id}", projectH.Get)
		r.Get("/testimonials", testimonialH.List)
		r.Get("/testimonials/{id}", testimonialH.Get)
		r.With(sensitiveRL.Limit).Post("/contact", contactH.Submit)
		r.With(sensitiveRL.Limit).Post("/newsletter", newsletterH.Subscribe)
		r.Post("/newsletter/unsubscribe", newsletterH.Unsubscribe)

		// ── Admin routes (Guard has already redirected non-admins) ──────────
		r.Route("/admin", func(r chi.Router) {
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

			r.Post("/blogs", blogH.Create)
			r.Put("/blogs/{id}", blogH.Update)
			r.Delete("/blogs/{id}", blogH.Delete)
			r.Post("/blogs/{id}/newsletter", blogH.SendNewsletter)

			r.Post("/projects", projectH.Create)
			r.Put("/projects/{id}", projectH.Update)
			r.Delete("/projects/{id}", projectH.Delete)

			r.Post("/testimonials", testimonialH.Create)
			r.Put("/testimonials/{id}", testimonialH.Update)
			r.Delete("/testimonials/{id}", testimonialH.Delete)

			r.Get("/contact", contactH.List)
			r.Get("/contact/{id}", contactH.Get)
			r.Put("/contact/{id}", contactH.Update)
			r.Delete("/contact/{id}", contactH.Delete)

			r.Get("/newsletter", newsletterH.List)
			r.Get("/newsletter/stats", newsletterH.Stats)
			r.Delete("/newsletter/{id}", newsletterH.Delete)

			r.Get("/dashboard/stats", dashboardH.Stats)
			r.Post("/uploads", uploadH.Image)
			r.Delete("/uploads", uploadH.DeleteImage)
		})
	})

	if cfg.StaticDir != "" {
		mountPages(r, cfg.StaticDir)
	}

	return r
}
