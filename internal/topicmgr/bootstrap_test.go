package topicmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	t.Run("All flags enabled", func(t *testing.T) {
		mgr := NewManager(Options{
			BrokerName:            "broker-a",
			BrokerClusterName:     "DefaultCluster",
			AutoCreateTopicEnable: true,
			ClusterTopicEnable:    true,
			BrokerTopicEnable:     true,
			TraceTopicEnable:      true,
			TimerWheelEnable:      true,
			DefaultTopicQueueNums: 4,
			ReviveQueueNum:        2,
		}, nil, nil, nil)
		mgr.Bootstrap()

		expected := []string{
			SelfTestTopic,
			AutoCreateTopicKeyTopic,
			BenchmarkTopic,
			"DefaultCluster",
			"broker-a",
			OffsetMovedEventTopic,
			ScheduleTopic,
			DefaultTraceTopic,
			"broker-a_REPLY_TOPIC",
			"rmq_sys_REVIVE_LOG_DefaultCluster",
			"rmq_sys_SYNC_BROKER_MEMBER_broker-a",
			TransHalfTopic,
			TransOpHalfTopic,
			TransCheckMaxTimeTopic,
			TimerTopic,
		}
		assert.ElementsMatch(t, expected, mgr.Names())
		for _, name := range expected {
			assert.True(t, mgr.Validator().IsSystemTopic(name), "%s should be a system topic", name)
		}

		tbw, _ := mgr.Lookup(AutoCreateTopicKeyTopic)
		assert.Equal(t, uint32(4), tbw.WriteQueueNums)
		assert.Equal(t, PermInherit|PermRead|PermWrite, tbw.Perm)

		cluster, _ := mgr.Lookup("DefaultCluster")
		assert.Equal(t, PermInherit|PermRead|PermWrite, cluster.Perm)

		revive, _ := mgr.Lookup(ReviveTopic("DefaultCluster"))
		assert.Equal(t, uint32(2), revive.ReadQueueNums)

		schedule, _ := mgr.Lookup(ScheduleTopic)
		assert.Equal(t, uint32(18), schedule.WriteQueueNums)

		bench, _ := mgr.Lookup(BenchmarkTopic)
		assert.Equal(t, uint32(1024), bench.WriteQueueNums)

		member, _ := mgr.Lookup(SyncBrokerMemberTopic("broker-a"))
		assert.Equal(t, PermInherit, member.Perm)
	})

	t.Run("Flags disabled", func(t *testing.T) {
		mgr := NewManager(Options{BrokerName: "broker-a", BrokerClusterName: "DefaultCluster"}, nil, nil, nil)
		mgr.Bootstrap()

		assert.False(t, mgr.Contains(AutoCreateTopicKeyTopic))
		assert.False(t, mgr.Contains(DefaultTraceTopic))
		assert.False(t, mgr.Contains(TimerTopic))
		assert.True(t, mgr.Contains(TransCheckMaxTimeTopic))

		cluster, ok := mgr.Lookup("DefaultCluster")
		require.True(t, ok)
		assert.Equal(t, PermInherit, cluster.Perm)

		broker, ok := mgr.Lookup("broker-a")
		require.True(t, ok)
		assert.Equal(t, PermInherit, broker.Perm)
	})

	t.Run("Custom trace topic", func(t *testing.T) {
		mgr := NewManager(Options{TraceTopicEnable: true, MsgTraceTopicName: "my_trace"}, nil, nil, nil)
		mgr.Bootstrap()

		assert.True(t, mgr.Contains("my_trace"))
		assert.False(t, mgr.Contains(DefaultTraceTopic))
	})

	t.Run("Empty broker identity skips named topics", func(t *testing.T) {
		mgr := NewManager(Options{}, nil, nil, nil)
		mgr.Bootstrap()

		for _, name := range mgr.Names() {
			assert.NotContains(t, name, "REPLY_TOPIC")
			assert.NotContains(t, name, "REVIVE_LOG")
		}
	})

	t.Run("Bootstrap does not advance the version", func(t *testing.T) {
		mgr := NewManager(Options{BrokerName: "b"}, nil, nil, nil)
		mgr.Bootstrap()
		assert.Equal(t, DataVersion{}, mgr.DataVersion())
	})
}
