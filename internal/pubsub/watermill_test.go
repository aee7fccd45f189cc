package pubsub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	err := bridge.Subscribe(ctx, "broker.test", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	err = bridge.Publish(ctx, Message{
		Topic:    "broker.test",
		Source:   "broker-a",
		Payload:  []byte(`{"hello":"world"}`),
		Metadata: map[string]string{"request_id": "req-1"},
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "broker.test", msg.Topic)
		assert.Equal(t, "broker-a", msg.Source)
		assert.JSONEq(t, `{"hello":"world"}`, string(msg.Payload))
		assert.Equal(t, "req-1", msg.Metadata["request_id"])
		assert.NotContains(t, msg.Metadata, metaKeyTopic)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestWatermillBridge_HandlerErrorDoesNotRedeliver(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	require.NoError(t, bridge.Subscribe(ctx, "broker.fail", func(ctx context.Context, msg Message) error {
		calls <- struct{}{}
		return errors.New("boom")
	}))

	require.NoError(t, bridge.Publish(ctx, Message{Topic: "broker.fail", Payload: []byte("x")}))

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}

	select {
	case <-calls:
		t.Fatal("failed message must not be redelivered")
	case <-time.After(100 * time.Millisecond):
	}
}

type greeting struct {
	Name string `json:"name"`
}

func TestTypedEvent(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := NewEvent[greeting]("broker.greeting")
	assert.Equal(t, "broker.greeting", event.Name())

	got := make(chan greeting, 1)
	require.NoError(t, Subscribe(ctx, bridge, event, func(ctx context.Context, g greeting, msg Message) error {
		assert.Equal(t, "tester", msg.Source)
		got <- g
		return nil
	}))

	require.NoError(t, Publish(ctx, bridge, event, "tester", greeting{Name: "orders"}, nil))

	select {
	case g := <-got:
		assert.Equal(t, "orders", g.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for typed event")
	}

	_, err := event.Decode(Message{Payload: []byte("not json")})
	assert.Error(t, err)
}
