package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nfrund/mqbroker/internal/namesrv"
	"github.com/nfrund/mqbroker/internal/pubsub"
)

// Subscriber is the part of the bus the Propagator needs.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error
}

// Propagator forwards published registrations to the name server client.
type Propagator struct {
	sub        Subscriber
	client     namesrv.Client
	opts       Options
	propagated *prometheus.CounterVec
}

// NewPropagator creates a Propagator calling client for every registration on sub.
func NewPropagator(opts Options, sub Subscriber, client namesrv.Client) *Propagator {
	opts.defaults()
	return &Propagator{
		sub:        sub,
		client:     client,
		opts:       opts,
		propagated: newPropagatedCounter(opts.Registerer),
	}
}

// Start subscribes to registrations. Delivery stops when ctx is cancelled or the bus closes.
func (p *Propagator) Start(ctx context.Context) error {
	if err := pubsub.Subscribe(ctx, p.sub, RegisterEvent, p.handle); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", RegisterTopic, err)
	}
	slog.Info("Topic registration propagator started", "topic", RegisterTopic)
	return nil
}

// handle calls the naming layer. Failures are logged and not retried here.
func (p *Propagator) handle(ctx context.Context, reg Registration, _ pubsub.Message) error {
	ctx, span := p.opts.Tracer.Start(ctx, "namesrv.register",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("registration.id", reg.ID),
			attribute.String("registration.mode", string(reg.Mode)),
			attribute.Int("registration.topics", len(reg.Topics)),
		),
	)
	defer span.End()

	var err error
	switch reg.Mode {
	case ModeSingle:
		for _, cfg := range reg.Topics {
			if err = p.client.RegisterSingleTopic(ctx, reg.BrokerName, cfg); err != nil {
				break
			}
		}
	default:
		err = p.client.RegisterIncrement(ctx, reg.BrokerName, reg.Topics, reg.DataVersion)
	}

	p.propagated.WithLabelValues(string(reg.Mode), result(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Warn("Failed to register topics with name server", "id", reg.ID, "mode", reg.Mode, "error", err)
	}
	return nil
}
