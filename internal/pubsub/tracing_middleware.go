package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// carrier is the propagator used to hand span context from publisher to subscriber
// through message metadata. GoChannel does not carry Go contexts across delivery.
var carrier propagation.TextMapPropagator = propagation.TraceContext{}

func spanAttributes(op, topic, id, source string, size int) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("messaging.system", "watermill"),
		attribute.String("messaging.operation", op),
		attribute.String("messaging.destination", topic),
		attribute.String("messaging.message_id", id),
		attribute.String("messaging.source", source),
		attribute.Int("messaging.message_payload_size_bytes", size),
	)
}

// tracedPublisher opens a producer span per message and stores its context in the
// message metadata.
type tracedPublisher struct {
	message.Publisher
	tracer trace.Tracer
}

func (p tracedPublisher) Publish(topic string, messages ...*message.Message) error {
	spans := make([]trace.Span, 0, len(messages))
	for _, msg := range messages {
		ctx, span := p.tracer.Start(msg.Context(), "publish "+topic,
			trace.WithSpanKind(trace.SpanKindProducer),
			spanAttributes("publish", topic, msg.UUID, msg.Metadata.Get(metaKeySource), len(msg.Payload)),
		)
		carrier.Inject(ctx, propagation.MapCarrier(msg.Metadata))
		msg.SetContext(ctx)
		spans = append(spans, span)
	}

	err := p.Publisher.Publish(topic, messages...)
	for _, span := range spans {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
	return err
}

// traceHandler runs every delivery inside a consumer span that continues the trace of
// the publisher found in the metadata.
func traceHandler(tracer trace.Tracer, topic string, handler Handler) func(*message.Message, Message) error {
	return func(wmMsg *message.Message, msg Message) error {
		ctx := carrier.Extract(context.Background(), propagation.MapCarrier(wmMsg.Metadata))
		ctx, span := tracer.Start(ctx, "process "+topic,
			trace.WithSpanKind(trace.SpanKindConsumer),
			spanAttributes("process", topic, wmMsg.UUID, msg.Source, len(msg.Payload)),
		)
		defer span.End()

		if err := handler(ctx, msg); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		return nil
	}
}
