package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/relaykit/contact-relay/internal/http/handlers"
	httpmiddleware "github.com/relaykit/contact-relay/internal/http/middleware"
	"github.com/relaykit/contact-relay/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	BatchHandler   *handlers.BatchHandler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.BatchHandler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/v1/batches", func(r chi.Router) {
		r.Post("/classify", cfg.BatchHandler.Classify)
		r.Post("/export", cfg.BatchHandler.Export)
		r.Post("/send", cfg.BatchHandler.Send)
	})

	return r
}
