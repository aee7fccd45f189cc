package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func newBroker(t *testing.T) (*Client, *topicmgr.Manager, *admin.Feed) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

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

	feed := admin.NewFeed()
	require.NoError(t, feed.Start(ctx, bus))

	srv := admin.New(admin.Options{Addr: "127.0.0.1:0", Version: "test", Manager: mgr, Feed: feed, Gatherer: reg})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return New(ts.URL), mgr, feed
}

func TestClient_Topics(t *testing.T) {
	c, mgr, _ := newBroker(t)
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		list, err := c.ListTopics(ctx)
		require.NoError(t, err)
		assert.Len(t, list.Topics, len(mgr.Names()))
		assert.Equal(t, mgr.DataVersion(), list.DataVersion)
	})

	t.Run("Get", func(t *testing.T) {
		cfg, err := c.GetTopic(ctx, topicmgr.AutoCreateTopicKeyTopic)
		require.NoError(t, err)
		assert.True(t, cfg.Perm.IsInherited())
	})

	t.Run("Get missing", func(t *testing.T) {
		_, err := c.GetTopic(ctx, "missing")
		require.Error(t, err)
		assert.True(t, NotFound(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, string(topicmgr.ErrorTopicNotFound), apiErr.Type)
	})

	t.Run("Update", func(t *testing.T) {
		perm := uint32(topicmgr.PermRead)
		cfg, err := c.UpdateTopic(ctx, "orders", admin.UpdateTopicRequest{
			ReadQueueNums:  4,
			WriteQueueNums: 4,
			Perm:           &perm,
			Attributes:     map[string]string{"+message.type": "FIFO"},
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(4), cfg.ReadQueueNums)
		assert.Equal(t, topicmgr.PermRead, cfg.Perm)
		assert.Equal(t, "FIFO", cfg.Attributes["message.type"])
		assert.True(t, mgr.Contains("orders"))
	})

	t.Run("Update rejected", func(t *testing.T) {
		_, err := c.UpdateTopic(ctx, "bad.name", admin.UpdateTopicRequest{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, string(topicmgr.ErrorInvalidName), apiErr.Type)
	})

	t.Run("AutoCreate", func(t *testing.T) {
		cfg, err := c.AutoCreate(ctx, "clicks", admin.AutoCreateRequest{
			Template:  topicmgr.AutoCreateTopicKeyTopic,
			QueueNums: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, uint32(4), cfg.WriteQueueNums)
		assert.False(t, cfg.Perm.IsInherited())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, c.DeleteTopic(ctx, "orders"))
		assert.False(t, mgr.Contains("orders"))
		assert.True(t, NotFound(c.DeleteTopic(ctx, "orders")))
	})
}

func TestClient_SnapshotAndVersion(t *testing.T) {
	c, mgr, _ := newBroker(t)
	ctx := context.Background()

	data, err := c.Snapshot(ctx, true)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"topicConfigTable\"")

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test", v.Version)
	assert.Equal(t, len(mgr.Names()), v.Stats.TotalTopics)
}

func TestClient_Watch(t *testing.T) {
	c, mgr, feed := newBroker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan dispatch.Registration, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Watch(ctx, func(reg dispatch.Registration) error {
			got <- reg
			cancel()
			return nil
		})
	}()

	require.Eventually(t, func() bool { return feed.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, mgr.Update(context.Background(), topicmgr.NewTopicConfig("watched")))

	select {
	case reg := <-got:
		require.Len(t, reg.Topics, 1)
		assert.Equal(t, "watched", reg.Topics[0].TopicName)
	case <-time.After(3 * time.Second):
		t.Fatal("no registration received")
	}
	assert.NoError(t, <-errCh)
}

func TestNew_AddsScheme(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:10912", New("127.0.0.1:10912").base)
	assert.Equal(t, "https://broker:443", New("https://broker:443/").base)
}
