package topicmgr

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_InsertIfAbsentAndAdvance(t *testing.T) {
	now := time.UnixMilli(1_000)
	r := NewRegistry()

	stored, inserted, dv := r.InsertIfAbsentAndAdvance(NewTopicConfigWithQueues("orders", 4, 4), 7, now)
	require.True(t, inserted)
	assert.Equal(t, uint32(4), stored.WriteQueueNums)
	assert.Equal(t, DataVersion{Timestamp: 1_000, Counter: 1, StateVersion: 7}, dv)

	stored, inserted, dv = r.InsertIfAbsentAndAdvance(NewTopicConfigWithQueues("orders", 16, 16), 8, now.Add(time.Second))
	assert.False(t, inserted)
	assert.Equal(t, uint32(4), stored.WriteQueueNums, "existing entry must be returned untouched")
	assert.Equal(t, int64(1), dv.Counter)
	assert.Equal(t, dv, r.Version(), "version must not advance when nothing was inserted")

	got, ok := r.Get("orders")
	require.True(t, ok)
	assert.Equal(t, uint32(4), got.WriteQueueNums)
}

func TestRegistry_Modify(t *testing.T) {
	now := time.UnixMilli(2_000)

	t.Run("Inserts and then replaces", func(t *testing.T) {
		r := NewRegistry()
		change, err := r.Modify("orders", func(current TopicConfig, exists bool) (TopicConfig, error) {
			assert.False(t, exists)
			return NewTopicConfigWithQueues("orders", 2, 2), nil
		}, 0, now)
		require.NoError(t, err)
		assert.False(t, change.Replaced)
		assert.Equal(t, int64(1), change.Version.Counter)

		change, err = r.Modify("orders", func(current TopicConfig, exists bool) (TopicConfig, error) {
			assert.True(t, exists)
			assert.Equal(t, uint32(2), current.WriteQueueNums)
			next := current
			next.WriteQueueNums = 6
			return next, nil
		}, 0, now)
		require.NoError(t, err)
		assert.True(t, change.Replaced)
		assert.Equal(t, uint32(2), change.Old.WriteQueueNums)
		assert.Equal(t, uint32(6), change.New.WriteQueueNums)
		assert.Equal(t, change.Version, r.Version())
	})

	t.Run("Error leaves table and version unchanged", func(t *testing.T) {
		r := NewRegistry()
		r.Put(NewTopicConfigWithQueues("orders", 2, 2))
		before := r.Version()

		_, err := r.Modify("orders", func(current TopicConfig, exists bool) (TopicConfig, error) {
			return TopicConfig{}, errors.New("rejected")
		}, 0, now)
		require.Error(t, err)

		got, _ := r.Get("orders")
		assert.Equal(t, uint32(2), got.WriteQueueNums)
		assert.Equal(t, before, r.Version())
	})

	t.Run("Callback cannot mutate the stored attributes", func(t *testing.T) {
		r := NewRegistry()
		cfg := NewTopicConfig("orders")
		cfg.Attributes = map[string]string{"message.type": "NORMAL"}
		r.Put(cfg)

		_, err := r.Modify("orders", func(current TopicConfig, exists bool) (TopicConfig, error) {
			current.Attributes["message.type"] = "FIFO"
			return TopicConfig{}, errors.New("rejected")
		}, 0, now)
		require.Error(t, err)

		got, _ := r.Get("orders")
		assert.Equal(t, "NORMAL", got.Attributes["message.type"])
	})
}
