package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Optimiser/internal/broker"
	"github.com/MikeSquared-Agency/Optimiser/internal/store"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
)

func NewRouter(b *broker.Broker, s store.Store, catalog *suggestions.Catalog, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	subjects := NewSubjectsHandler(b, s, logger)
	meta := NewCatalogHandler(b.Registry(), b.Weights(), catalog)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/subjects/{id}/score", subjects.Score)
		r.Get("/subjects/{id}/analysis", subjects.Analysis)
		r.Get("/analyses", subjects.List)

		r.Get("/catalog", meta.Catalog)
		r.Get("/suggestions", meta.Suggestions)
		r.Get("/suggestions/{code}", meta.Suggestion)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Post("/subjects/{id}/analyze", subjects.Analyze)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
