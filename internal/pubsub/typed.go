package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event[T] binds a bus topic to the payload type carried on it.
type Event[T any] struct {
	topicName string
}

// NewEvent creates a typed event for topic name.
func NewEvent[T any](name string) Event[T] {
	return Event[T]{topicName: name}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Publish sends a typed event. The compiler ensures 'payload' matches 'T'.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], source string, payload T, metadata map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:    event.Name(),
		Source:   source,
		Payload:  data,
		Metadata: metadata,
	})
}

// Decode unmarshals the payload of msg as the event's payload type.
func (e Event[T]) Decode(msg Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s payload: %w", e.topicName, err)
	}
	return out, nil
}

// Subscribe delivers decoded payloads of event to handler. Undecodable messages are
// reported as handler errors.
func Subscribe[T any](ctx context.Context, s interface {
	Subscribe(context.Context, string, Handler) error
}, event Event[T], handler func(ctx context.Context, payload T, msg Message) error) error {
	return s.Subscribe(ctx, event.Name(), func(ctx context.Context, msg Message) error {
		payload, err := event.Decode(msg)
		if err != nil {
			return err
		}
		return handler(ctx, payload, msg)
	})
}
