package topicmgr

// Well-known system topics.
const (
	AutoCreateTopicKeyTopic   = "TBW102"
	SelfTestTopic             = "SELF_TEST_TOPIC"
	BenchmarkTopic            = "BenchmarkTest"
	OffsetMovedEventTopic     = "OFFSET_MOVED_EVENT"
	ScheduleTopic             = "SCHEDULE_TOPIC_XXXX"
	DefaultTraceTopic         = "RMQ_SYS_TRACE_TOPIC"
	TransHalfTopic            = "RMQ_SYS_TRANS_HALF_TOPIC"
	TransOpHalfTopic          = "RMQ_SYS_TRANS_OP_HALF_TOPIC"
	TransCheckMaxTimeTopic    = "TRANS_CHECK_MAX_TIME_TOPIC"
	TimerTopic                = "rmq_sys_wheel_timer"
	SystemTopicPrefix         = "rmq_sys_"
	ReviveTopicPrefix         = SystemTopicPrefix + "REVIVE_LOG_"
	SyncBrokerMemberPrefix    = SystemTopicPrefix + "SYNC_BROKER_MEMBER_"
	ReplyTopicPostfix         = "REPLY_TOPIC"
	scheduleTopicQueueNums    = 18
	benchmarkTopicQueueNums   = 1024
	defaultReviveQueueNums    = 8
	defaultAutoCreateQueueNum = 8
)

var fixedSystemTopics = []string{
	AutoCreateTopicKeyTopic,
	SelfTestTopic,
	BenchmarkTopic,
	OffsetMovedEventTopic,
	ScheduleTopic,
	TransHalfTopic,
	TransOpHalfTopic,
	TransCheckMaxTimeTopic,
}

// ReviveTopic returns the pop-consumption revive topic of a cluster.
func ReviveTopic(clusterName string) string {
	return ReviveTopicPrefix + clusterName
}

// ReplyTopic returns the request/reply topic of a broker.
func ReplyTopic(brokerName string) string {
	return brokerName + "_" + ReplyTopicPostfix
}

// SyncBrokerMemberTopic returns the member-group sync topic of a broker.
func SyncBrokerMemberTopic(brokerName string) string {
	return SyncBrokerMemberPrefix + brokerName
}
