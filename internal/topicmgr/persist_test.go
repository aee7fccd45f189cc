package topicmgr

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mqbroker/internal/storage"
)

func TestEncodeDecode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cfg := NewTopicConfigWithQueues("orders", 4, 4)
	cfg.Attributes = map[string]string{"+message.type": "FIFO"}
	require.NoError(t, env.mgr.Update(ctx, cfg))

	data, err := env.mgr.Encode(false)
	require.NoError(t, err)

	other := NewManager(testOptions(), nil, nil, nil)
	require.NoError(t, other.Decode(data))

	if diff := cmp.Diff(env.mgr.Table(), other.Table()); diff != "" {
		t.Errorf("decoded table mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, env.mgr.DataVersion(), other.DataVersion())
}

func TestEncode_Format(t *testing.T) {
	mgr := NewManager(testOptions(), nil, nil, nil)
	mgr.Put(NewTopicConfigWithQueues("orders", 2, 2))

	data, err := mgr.Encode(true)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"topicConfigTable\"")

	var raw map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "topicConfigTable")
	assert.Contains(t, raw, "dataVersion")
	assert.Contains(t, raw["topicConfigTable"], "orders")
}

func TestDecode(t *testing.T) {
	t.Run("Empty input is a no-op", func(t *testing.T) {
		mgr := NewManager(testOptions(), nil, nil, nil)
		assert.NoError(t, mgr.Decode(nil))
		assert.NoError(t, mgr.Decode([]byte("  \n")))
		assert.Empty(t, mgr.Names())
	})

	t.Run("Malformed input", func(t *testing.T) {
		mgr := NewManager(testOptions(), nil, nil, nil)
		err := mgr.Decode([]byte("{not json"))
		assert.ErrorIs(t, err, &TopicError{Type: ErrorDecodeFailed})
	})

	t.Run("Merges over bootstrapped topics", func(t *testing.T) {
		mgr := NewManager(testOptions(), nil, nil, nil)
		mgr.Bootstrap()
		doc := `{"topicConfigTable":{"orders":{"topicName":"orders","readQueueNums":3,"writeQueueNums":3,"perm":6},
			"TBW102":{"topicName":"TBW102","readQueueNums":2,"writeQueueNums":2,"perm":7}},
			"dataVersion":{"timestamp":42,"counter":9,"stateVersion":1}}`
		require.NoError(t, mgr.Decode([]byte(doc)))

		assert.True(t, mgr.Contains(SelfTestTopic))
		tbw, _ := mgr.Lookup(AutoCreateTopicKeyTopic)
		assert.Equal(t, uint32(2), tbw.WriteQueueNums, "persisted values override bootstrap")
		assert.Equal(t, DataVersion{Timestamp: 42, Counter: 9, StateVersion: 1}, mgr.DataVersion())
	})
}

func TestPersistAndLoad(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	first := NewManager(testOptions(), nil, storage.NewAferoStore(fs), nil)
	require.NoError(t, first.Update(ctx, NewTopicConfigWithQueues("orders", 5, 5)))

	exists, err := afero.Exists(fs, "/store/config/topics.json")
	require.NoError(t, err)
	assert.True(t, exists)

	second := NewManager(testOptions(), nil, storage.NewAferoStore(fs), nil)
	found, err := second.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)

	orders, ok := second.Lookup("orders")
	require.True(t, ok)
	assert.Equal(t, uint32(5), orders.WriteQueueNums)
	assert.Equal(t, first.DataVersion(), second.DataVersion())
}

func TestLoad_NoSnapshot(t *testing.T) {
	mgr := NewManager(testOptions(), nil, storage.NewAferoStore(afero.NewMemMapFs()), nil)
	found, err := mgr.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}
