package namesrv

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mqbroker/internal/topicmgr"
)

func TestLogClient(t *testing.T) {
	var buf bytes.Buffer
	client := NewLogClient(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	require.NoError(t, client.RegisterSingleTopic(ctx, "broker-a", topicmgr.NewTopicConfig("orders")))
	require.NoError(t, client.RegisterIncrement(ctx, "broker-a",
		[]topicmgr.TopicConfig{topicmgr.NewTopicConfig("payments")}, topicmgr.DataVersion{Counter: 3}))

	out := buf.String()
	assert.Contains(t, out, "Register single topic")
	assert.Contains(t, out, "topic=orders")
	assert.Contains(t, out, "Register increment broker data")
	assert.Contains(t, out, "payments")
}
