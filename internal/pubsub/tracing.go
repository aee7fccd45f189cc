package pubsub

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "mqbroker/pubsub"

// TracingConfig selects where spans of the broker go.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	BrokerName  string
	ZipkinURL   string
	// SampleRatio is the fraction of root spans kept; 0 keeps all of them.
	SampleRatio float64
}

// Tracing owns the tracer provider of the process. When disabled its tracer is a no-op.
type Tracing struct {
	Tracer   trace.Tracer
	shutdown func(context.Context) error
}

// NewTracing exports spans to Zipkin when cfg.Enabled is set and installs the
// provider and the W3C trace context propagator globally.
func NewTracing(ctx context.Context, cfg TracingConfig) (*Tracing, error) {
	if !cfg.Enabled {
		return &Tracing{
			Tracer:   noop.NewTracerProvider().Tracer(instrumentationName),
			shutdown: func(context.Context) error { return nil },
		}, nil
	}

	exporter, err := zipkin.New(cfg.ZipkinURL)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("broker.name", cfg.BrokerName),
	))
	if err != nil {
		return nil, err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &Tracing{Tracer: tp.Tracer(instrumentationName), shutdown: tp.Shutdown}, nil
}

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}
