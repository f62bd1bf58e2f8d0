package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/martirspe/complaints-book-pro/internal/claim/handler"
	"github.com/martirspe/complaints-book-pro/internal/platform/config"
	"github.com/martirspe/complaints-book-pro/internal/platform/health"
	"github.com/martirspe/complaints-book-pro/pkg/platform/middleware/metadata"
	"github.com/martirspe/complaints-book-pro/pkg/platform/middleware/request"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Config  config.Server
	Forms   *handler.Handler
	Health  *health.Handler
	Metrics request.LatencyObserver
	Logger  *slog.Logger
}

// NewRouter wires the probes, the metrics endpoint and the form API behind the
// middleware stack. Probes and /metrics skip the timeout and body limit.
func NewRouter(deps RouterDeps) (http.Handler, error) {
	proxies, err := metadata.ParseTrustedProxies(deps.Config.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("server.trusted_proxies: %w", err)
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: proxies}).Handler)
	r.Use(request.Logger(deps.Logger))

	deps.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(request.Latency(deps.Metrics, routePattern))
		if deps.Config.RequestTimeout > 0 {
			api.Use(request.Timeout(deps.Config.RequestTimeout))
		}
		api.Use(request.BodyLimit(handler.MaxUploadSize))
		deps.Forms.Register(api)
	})

	if len(deps.Config.AllowedOrigins) == 0 {
		return r, nil
	}
	return cors.New(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", request.HeaderRequestID},
		ExposedHeaders:   []string{request.HeaderRequestID},
		AllowCredentials: false,
	}).Handler(r), nil
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
