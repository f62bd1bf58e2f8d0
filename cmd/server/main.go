package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/claim/handler"
	"github.com/martirspe/complaints-book-pro/internal/claim/resolver"
	"github.com/martirspe/complaints-book-pro/internal/claim/session"
	"github.com/martirspe/complaints-book-pro/internal/claim/submission"
	"github.com/martirspe/complaints-book-pro/internal/platform/config"
	"github.com/martirspe/complaints-book-pro/internal/platform/health"
	"github.com/martirspe/complaints-book-pro/internal/platform/logger"
	"github.com/martirspe/complaints-book-pro/internal/platform/metrics"
	"github.com/martirspe/complaints-book-pro/internal/platform/tracer"
	"github.com/martirspe/complaints-book-pro/internal/verification"
	"github.com/martirspe/complaints-book-pro/pkg/platform/circuit"
)

// ConfigFileEnv names an optional YAML file read before CLAIMS_* overrides.
const ConfigFileEnv = "CLAIMS_CONFIG_FILE"

const shutdownTimeout = 10 * time.Second

// main wires the form engine to the backend client and serves the browser API.
// Business logic lives in internal/claim.
func main() {
	cfg, err := config.Load(os.Getenv(ConfigFileEnv))
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)
	slog.SetDefault(log)

	log.Info("initializing complaints-book",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"backend", cfg.Backend.URL,
		"version", health.Version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, shutdownTracing, err := buildTracer(ctx, cfg.Tracing, log)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout,
		backend.WithRateLimit(cfg.Backend.RateLimit, cfg.Backend.RateBurst),
		backend.WithCatalogTTL(cfg.Backend.CatalogCacheTTL),
		backend.WithObserver(m),
		backend.WithTracer(tr),
		backend.WithLogger(log),
	)

	lookupBreaker := circuit.New("person_lookup",
		circuit.WithFailureThreshold(cfg.Backend.BreakerThreshold),
		circuit.WithCooldown(cfg.Backend.BreakerCooldown),
		circuit.OnStateChange(func(name string, from, to circuit.State) {
			log.Warn("circuit state changed", "circuit", name, "from", from.String(), "to", to.String())
			m.SetCircuitState(name, int(to))
		}),
	)
	persons := resolver.New(client,
		resolver.WithMetrics(m),
		resolver.WithTracer(tr),
		resolver.WithLogger(log),
		resolver.WithBreaker(lookupBreaker),
	)
	subOpts := []submission.Option{
		submission.WithMetrics(m),
		submission.WithTracer(tr),
		submission.WithLogger(log),
	}
	if cfg.Verification.IssuerURL != "" {
		issuer := verification.NewHTTPIssuer(cfg.Verification.IssuerURL, cfg.Verification.SecretKey, cfg.Verification.Timeout)
		subOpts = append(subOpts, submission.WithIssuer(issuer))
		log.Info("human verification tokens come from issuer", "issuer", cfg.Verification.IssuerURL)
	}
	orchestrator := submission.New(client, persons, subOpts...)

	forms := session.New(client, persons, orchestrator,
		session.WithMetrics(m),
		session.WithLogger(log),
		session.WithDebounce(cfg.Form.LookupDebounce),
		session.WithSearchDebounce(cfg.Form.LocationDebounce, cfg.Form.CallingDebounce),
		session.WithTTL(cfg.Form.SessionTTL),
	)

	probes := health.New(cfg.Server.Environment)
	probes.RegisterCheck("backend", client.Ping)

	router, err := NewRouter(RouterDeps{
		Config:  cfg.Server,
		Forms:   handler.New(forms, log),
		Health:  probes,
		Metrics: m,
		Logger:  log,
	})
	if err != nil {
		log.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Server.Addr)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("shutting down server gracefully")
	case err := <-errCh:
		log.Error("server error", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	forms.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("failed to flush spans", "error", err)
	}

	log.Info("server stopped")
	os.Exit(exitCode)
}

// buildTracer returns the OpenTelemetry tracer when an endpoint is configured
// and the no-op tracer otherwise. The returned func flushes pending spans.
func buildTracer(ctx context.Context, cfg config.Tracing, log *slog.Logger) (tracer.Tracer, func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		return tracer.NewNoop(), func(context.Context) error { return nil }, nil
	}
	tp, err := tracer.NewProvider(ctx, tracer.ExportConfig{
		Endpoint:    cfg.Endpoint,
		Insecure:    cfg.Insecure,
		ServiceName: cfg.ServiceName,
		SampleRatio: cfg.SampleRatio,
		Timeout:     5 * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	otel.SetTracerProvider(tp)
	log.Info("exporting spans", "endpoint", cfg.Endpoint, "sample_ratio", cfg.SampleRatio)
	return tracer.NewOTel(), tp.Shutdown, nil
}
