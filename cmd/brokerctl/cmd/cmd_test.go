package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mqbroker/internal/admin"
	"github.com/nfrund/mqbroker/internal/dispatch"
	"github.com/nfrund/mqbroker/internal/pubsub"
	"github.com/nfrund/mqbroker/internal/storage"
	"github.com/nfrund/mqbroker/internal/topicmgr"
)

func startBroker(t *testing.T) (string, *topicmgr.Manager) {
	t.Helper()

	bus := pubsub.NewWatermillBridge()
	t.Cleanup(func() { bus.Close() })

	reg := prometheus.NewRegistry()
	dispatcher := dispatch.NewDispatcher(dispatch.Options{BrokerName: "broker-a", Registerer: reg}, bus)
	mgr := topicmgr.NewManager(topicmgr.Options{
		BrokerName:            "broker-a",
		BrokerClusterName:     "DefaultCluster",
		StorePathRootDir:      "/store",
		AutoCreateTopicEnable: true,
		Registerer:            reg,
	}, nil, storage.NewAferoStore(afero.NewMemMapFs()), dispatcher)
	mgr.Bootstrap()

	srv := admin.New(admin.Options{Addr: "127.0.0.1:0", Version: "test", Manager: mgr, Feed: admin.NewFeed(), Gatherer: reg})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL, mgr
}

// run executes brokerctl with args and returns its output. Flags keep their values
// between runs, so every call passes the ones it relies on.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTopicsCommands(t *testing.T) {
	addr, mgr := startBroker(t)

	t.Run("update", func(t *testing.T) {
		out, err := run(t, "--addr", addr, "-f", "table", "topics", "update", "orders",
			"--read", "4", "--write", "4", "--attrs", "+message.type=FIFO")
		require.NoError(t, err, out)
		assert.Contains(t, out, "message.type=FIFO")

		cfg, ok := mgr.Lookup("orders")
		require.True(t, ok)
		assert.Equal(t, uint32(4), cfg.WriteQueueNums)
	})

	t.Run("update with malformed attrs", func(t *testing.T) {
		_, err := run(t, "--addr", addr, "topics", "update", "orders", "--attrs", "message.type")
		assert.ErrorContains(t, err, "invalid --attrs")
	})

	t.Run("list json", func(t *testing.T) {
		out, err := run(t, "--addr", addr, "-f", "json", "topics", "list", "--prefix", "ord")
		require.NoError(t, err, out)

		var resp struct {
			Topics []topicmgr.TopicConfig `json:"topics"`
			Count  int                    `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "orders", resp.Topics[0].TopicName)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := run(t, "--addr", addr, "topics", "get", "nope")
		assert.ErrorContains(t, err, "topic 'nope' not found")
	})

	t.Run("delete", func(t *testing.T) {
		out, err := run(t, "--addr", addr, "topics", "delete", "orders")
		require.NoError(t, err)
		assert.Contains(t, out, "Topic 'orders' deleted")
		assert.False(t, mgr.Contains("orders"))
	})
}
