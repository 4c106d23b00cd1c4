package api

import (
	"net/http"
	"time"

	"api-registry/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second))
	r.Use(CORSMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(MetricsMiddleware)

	// Root and status routes
	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
	r.Get("/service-status", h.HandleServiceStatus)

	// Machine-readable schema documentation
	r.Get("/openapi.json", h.HandleOpenAPI)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/apis", func(r chi.Router) {
			r.Get("/", h.HandleListAPIs)
			r.Post("/", h.HandleRegisterAPI)
			r.Get("/{apiID}", h.HandleGetAPI)
			r.Put("/{apiID}", h.HandleUpdateAPI)
			r.Delete("/{apiID}", h.HandleDeleteAPI)
			r.Get("/{apiID}/health-checks", h.HandleGetAPIHealthChecks)
		})

		r.Post("/contact-submissions", h.HandleContactSubmission)
		r.Post("/newsletter-subscriptions", h.HandleNewsletterSubscription)
		r.Post("/trial-waitlist", h.HandleTrialWaitlist)
	})

	return r
}

// CORSMiddleware returns CORS middleware with the specified allowed origins
func CORSMiddleware(allowedOrigins string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
