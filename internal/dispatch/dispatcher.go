package dispatch

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nfrund/mqbroker/internal/pubsub"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

const instrumentationName = "mqbroker/dispatch"

// Options configures a Dispatcher or Propagator.
type Options struct {
	BrokerName          string
	BrokerClusterName   string
	SingleTopicRegister bool

	Clock      clock.Clock
	Tracer     trace.Tracer
	Registerer prometheus.Registerer
}

func (o *Options) defaults() {
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}
}

// Dispatcher publishes a Registration for every topic the manager creates or updates.
// It implements topicmgr.Registrar.
type Dispatcher struct {
	pub       pubsub.Publisher
	opts      Options
	single    atomic.Bool
	published *prometheus.CounterVec
}

var _ topicmgr.Registrar = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher publishing on pub.
func NewDispatcher(opts Options, pub pubsub.Publisher) *Dispatcher {
	opts.defaults()
	d := &Dispatcher{
		pub:       pub,
		opts:      opts,
		published: newPublishedCounter(opts.Registerer),
	}
	d.single.Store(opts.SingleTopicRegister)
	return d
}

// SetSingleTopicRegister switches between single-topic and incremental registration.
func (d *Dispatcher) SetSingleTopicRegister(enable bool) {
	if d.single.Swap(enable) != enable {
		slog.Info("Single topic register setting changed", "enabled", enable)
	}
}

// SingleTopicRegister reports the current registration mode.
func (d *Dispatcher) SingleTopicRegister() bool {
	return d.single.Load()
}

// Register implements topicmgr.Registrar. It never waits for the naming layer; a
// failed publish is logged and dropped.
func (d *Dispatcher) Register(cfg topicmgr.TopicConfig, dv topicmgr.DataVersion) {
	reg := Registration{
		ID:          uuid.NewString(),
		BrokerName:  d.opts.BrokerName,
		ClusterName: d.opts.BrokerClusterName,
		Mode:        ModeIncrement,
		Topics:      []topicmgr.TopicConfig{cfg},
		DataVersion: dv,
		CreatedAt:   d.opts.Clock.Now().UTC(),
	}
	if d.single.Load() {
		reg.Mode = ModeSingle
	}

	ctx, span := d.opts.Tracer.Start(context.Background(), "dispatch.register",
		trace.WithAttributes(
			attribute.String("registration.id", reg.ID),
			attribute.String("registration.mode", string(reg.Mode)),
			attribute.String("topic.name", cfg.TopicName),
			attribute.Int64("topic.data_version.counter", dv.Counter),
		),
	)
	defer span.End()

	err := pubsub.Publish(ctx, d.pub, RegisterEvent, d.opts.BrokerName, reg, map[string]string{
		"registration_id": reg.ID,
		"mode":            string(reg.Mode),
	})
	d.published.WithLabelValues(result(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Failed to publish topic registration", "topic", cfg.TopicName, "id", reg.ID, "error", err)
		return
	}
	slog.Debug("Published topic registration", "topic", cfg.TopicName, "id", reg.ID, "mode", reg.Mode)
}
