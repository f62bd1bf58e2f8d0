package tracer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ExportConfig describes the OTLP/HTTP collector spans are sent to.
type ExportConfig struct {
	// Endpoint is host:port of the collector, e.g. "localhost:4318".
	Endpoint    string
	Insecure    bool
	ServiceName string
	SampleRatio float64
	Timeout     time.Duration
}

// NewProvider builds an SDK tracer provider exporting over OTLP/HTTP.
// The caller owns the provider and must Shutdown it to flush pending spans.
func NewProvider(ctx context.Context, cfg ExportConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracehttp.WithTimeout(cfg.Timeout))
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	return newProvider(exp, cfg.ServiceName, cfg.SampleRatio), nil
}

func newProvider(exp sdktrace.SpanExporter, service string, ratio float64) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
	)
}
