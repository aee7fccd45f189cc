package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultOutputBuffer is the per-subscriber buffer of the in-memory channel. A full buffer
// makes Publish wait for the subscriber, so it is sized well above normal bursts.
const DefaultOutputBuffer = 1024

// WatermillBridge implements the Publisher and Subscriber interfaces using watermill's GoChannel.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	tracer trace.Tracer
	// Logger for watermill to use
	logger watermill.LoggerAdapter
}

const (
	// Metadata keys used to transfer our Message structure fields through watermill's message.
	metaKeySource = "source"
	metaKeyTopic  = "topic"
)

// Option configures a WatermillBridge.
type Option func(*bridgeOptions)

type bridgeOptions struct {
	buffer int64
	tracer trace.Tracer
}

// WithOutputBuffer sets the per-subscriber channel buffer.
func WithOutputBuffer(n int64) Option {
	return func(o *bridgeOptions) { o.buffer = n }
}

// WithTracer wraps publish and handle operations in spans of tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *bridgeOptions) { o.tracer = tracer }
}

// NewWatermillBridge initializes an in-memory Pub/Sub system.
func NewWatermillBridge(opts ...Option) *WatermillBridge {
	o := bridgeOptions{buffer: DefaultOutputBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}

	logger := watermill.NewStdLogger(false, false)
	// GoChannel is a simple in-memory pub/sub implementation.
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: o.buffer},
		logger,
	)

	return &WatermillBridge{
		pub:    tracedPublisher{Publisher: goChannel, tracer: o.tracer},
		sub:    goChannel,
		tracer: o.tracer,
		logger: logger,
	}
}

// mapToWatermillMessage converts our pubsub.Message to a watermill message.
func mapToWatermillMessage(ctx context.Context, msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	wmMsg.SetContext(ctx)

	wmMsg.Metadata.Set(metaKeySource, msg.Source)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)

	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}

	return wmMsg
}

// mapToPubSubMessage converts a watermill message back to our internal pubsub.Message.
// Keys owned by the bridge and the trace propagator are not handed to handlers.
func mapToPubSubMessage(wmMsg *message.Message) Message {
	metadata := make(map[string]string)
	for k, v := range wmMsg.Metadata {
		if !reservedKey(k) {
			metadata[k] = v
		}
	}

	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		Source:   wmMsg.Metadata.Get(metaKeySource),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

func reservedKey(k string) bool {
	if k == metaKeySource || k == metaKeyTopic {
		return true
	}
	for _, f := range carrier.Fields() {
		if k == f {
			return true
		}
	}
	return false
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	// We use the message's internal topic (msg.Topic) as the watermill topic.
	return wb.pub.Publish(msg.Topic, mapToWatermillMessage(ctx, msg))
}

// Subscribe implements the Subscriber interface.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	traced := traceHandler(wb.tracer, topic, handler)

	// Run the message processing in a separate goroutine so that Subscribe is non-blocking.
	go func() {
		for wmMsg := range messages {
			msg := mapToPubSubMessage(wmMsg)

			if err := traced(wmMsg, msg); err != nil {
				// A Nack would make GoChannel redeliver forever; retries are the handler's concern.
				slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
			}
			wmMsg.Ack()
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close implements the Publisher and Subscriber interface to shut down the bridge.
func (wb *WatermillBridge) Close() error {
	// Closing the subscriber will close the gochannel and stop message consumption.
	return wb.sub.Close()
}
