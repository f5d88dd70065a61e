package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/middleware"
)

// RouterConfig carries what the router needs beyond the Server itself.
type RouterConfig struct {
	Logger       *slog.Logger
	CORSOrigins  []string
	MaxBodyBytes int64
	JWTSecret    []byte
	// Redis backs the idempotency middleware. Nil disables it.
	Redis redis.UniversalClient
	// Gatherer is exposed at /metrics. Nil falls back to the default registry.
	Gatherer prometheus.Gatherer
	// OpenAPI is served verbatim at /openapi.yaml.
	OpenAPI []byte
}

// NewRouter builds the full HTTP handler.
//
// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer →
// CORS → body limit. RequestID must run before the logger so each line
// carries it. /healthz, /metrics and /openapi.yaml are public; every other
// route requires a bearer token, and POSTs are then de-duplicated per user by
// Idempotency-Key.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	}

	r.Get("/healthz", GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(cfg.OpenAPI)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthHandler(cfg.JWTSecret))
		r.Use(middleware.NewIdempotencyHandler(cfg.Redis, logger))
		s.RegisterRoutes(r)
	})

	return r
}
