package topicmgr

import "log/slog"

// Bootstrap inserts the system topics the broker needs, gated by the feature flags.
// It must run before any concurrent traffic. Re-running it overwrites the system
// entries with identical values; it neither advances the version nor persists.
func (m *Manager) Bootstrap() {
	o := m.opts

	m.putSystem(NewTopicConfigWithQueues(SelfTestTopic, 1, 1))

	if o.AutoCreateTopicEnable {
		m.putSystem(NewTopicConfigWithPerm(AutoCreateTopicKeyTopic,
			o.DefaultTopicQueueNums, o.DefaultTopicQueueNums,
			PermInherit|PermRead|PermWrite))
	}

	m.putSystem(NewTopicConfigWithQueues(BenchmarkTopic, benchmarkTopicQueueNums, benchmarkTopicQueueNums))

	if o.BrokerClusterName != "" {
		perm := PermInherit
		if o.ClusterTopicEnable {
			perm |= PermRead | PermWrite
		}
		cfg := NewTopicConfig(o.BrokerClusterName)
		cfg.Perm = perm
		m.putSystem(cfg)
	}

	if o.BrokerName != "" {
		perm := PermInherit
		if o.BrokerTopicEnable {
			perm |= PermRead | PermWrite
		}
		m.putSystem(NewTopicConfigWithPerm(o.BrokerName, 1, 1, perm))
	}

	m.putSystem(NewTopicConfigWithQueues(OffsetMovedEventTopic, 1, 1))
	m.putSystem(NewTopicConfigWithQueues(ScheduleTopic, scheduleTopicQueueNums, scheduleTopicQueueNums))

	if o.TraceTopicEnable {
		m.putSystem(NewTopicConfigWithQueues(o.MsgTraceTopicName, 1, 1))
	}

	if o.BrokerName != "" {
		m.putSystem(NewTopicConfigWithQueues(ReplyTopic(o.BrokerName), 1, 1))
	}

	if o.BrokerClusterName != "" {
		m.putSystem(NewTopicConfigWithQueues(ReviveTopic(o.BrokerClusterName), o.ReviveQueueNum, o.ReviveQueueNum))
	}

	if o.BrokerName != "" {
		m.putSystem(NewTopicConfigWithPerm(SyncBrokerMemberTopic(o.BrokerName), 1, 1, PermInherit))
	}

	m.putSystem(NewTopicConfigWithQueues(TransHalfTopic, 1, 1))
	m.putSystem(NewTopicConfigWithQueues(TransOpHalfTopic, 1, 1))
	m.putSystem(NewTopicConfigWithQueues(TransCheckMaxTimeTopic, 1, 1))

	if o.TimerWheelEnable {
		m.putSystem(NewTopicConfigWithQueues(TimerTopic, 1, 1))
	}

	slog.Info("Bootstrapped system topics", "broker", o.BrokerName, "cluster", o.BrokerClusterName, "topics", m.registry.Count())
}

func (m *Manager) putSystem(cfg TopicConfig) {
	m.validator.AddSystemTopic(cfg.TopicName)
	m.Put(cfg)
}
