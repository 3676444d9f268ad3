package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the JSON API under /api and metrics at /metrics.
// gatherer may be nil to use the default registry.
func NewRouter(apiHandler *APIHandler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/register", apiHandler.RegisterHandler)
		r.Post("/login", apiHandler.LoginHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Post("/messages", apiHandler.SendMessageHandler)
			r.Get("/history", apiHandler.HistoryHandler)

			r.Route("/admin", func(r chi.Router) {
				r.Use(apiHandler.AdminOnly)

				r.Get("/faqs", apiHandler.ListFAQsHandler)
				r.Post("/faqs", apiHandler.CreateFAQHandler)
				r.Get("/faqs/{faqID}", apiHandler.GetFAQHandler)
				r.Put("/faqs/{faqID}", apiHandler.UpdateFAQHandler)
				r.Delete("/faqs/{faqID}", apiHandler.DeleteFAQHandler)

				r.Get("/diagnostics/completion", apiHandler.CompletionCheckHandler)
				r.Get("/diagnostics/fallback", apiHandler.FallbackDemoHandler)
			})
		})
	})

	return r
}
