package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/events"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

func NewRouter(s store.Store, ev events.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if cfg.Server.RateLimitPerMinute > 0 {
		r.Use(RateLimitMiddleware(cfg.Server.RateLimitPerMinute))
	}

	datasets := NewDatasetsHandler(s, ev, m, cfg, logger)
	runs := NewRunsHandler(s, ev, m, cfg, logger)
	compute := NewComputeHandler(m)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/topsis", compute.Compute)

		r.Post("/datasets", datasets.Upload)
		r.Route("/datasets/{token}", func(r chi.Router) {
			r.Get("/", datasets.Get)
			r.Delete("/", datasets.Delete)
			r.Post("/runs", runs.Run)
			r.Get("/result", datasets.Result)
			r.Get("/explain", datasets.Explain)
			r.Get("/download", datasets.Download)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/admin/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
