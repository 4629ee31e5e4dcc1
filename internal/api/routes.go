package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/hebcal-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/today
//	GET    /api/v1/convert/gregorian/{date}
//	GET    /api/v1/convert/hebrew/{year}/{month}/{day}
//	GET    /api/v1/range?start=&end=
//	GET    /api/v1/format?year=&month=&day=
//	GET    /api/v1/gematria/{number}
//	GET    /api/v1/years/{year}
//	GET    /api/v1/years/{year}/months/{month}
//	GET    /api/v1/events                 (X-API-Key)
//	POST   /api/v1/events                 (X-API-Key)
//	GET    /api/v1/events/{id}            (X-API-Key)
//	DELETE /api/v1/events/{id}            (X-API-Key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		AccessMiddleware(logger, handlers.Metrics()),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeMethodNotAllowed)
	})

	// ==========================================================================
	// Service routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", handlers.Metrics().Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

		// ======================================================================
		// Public routes
		// ======================================================================
		r.Get("/today", handlers.GetToday)
		r.Get("/convert/gregorian/{date}", handlers.ConvertGregorian)
		r.Get("/convert/hebrew/{year}/{month}/{day}", handlers.ConvertHebrew)
		r.Get("/range", handlers.GetRange)
		r.Get("/format", handlers.FormatDate)
		r.Get("/gematria/{number}", handlers.GetGematria)
		r.Get("/years/{year}", handlers.GetYear)
		r.Get("/years/{year}/months/{month}", handlers.GetMonth)

		// ======================================================================
		// Saved dates (authenticated)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))

			r.Get("/events", handlers.ListEvents)
			r.Post("/events", handlers.CreateEvent)
			r.Get("/events/{id}", handlers.GetEvent)
			r.Delete("/events/{id}", handlers.DeleteEvent)
		})
	})

	return r
}
