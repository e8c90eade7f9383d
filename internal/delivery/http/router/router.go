package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/page-sentinel/internal/delivery/http/handler"
	"github.com/user/page-sentinel/internal/delivery/http/middleware"
	"github.com/user/page-sentinel/pkg/metrics"
)

// New builds the HTTP routes. gatherer serves /metrics.
func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)
	// a scan holds the request for its feedback delay
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/message", h.HandleMessage)
		r.Post("/events", h.HandleEvent)
		r.Get("/context-menu", h.HandleContextMenu)
	})

	return r
}
