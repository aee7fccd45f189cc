package attribute

import "math"

// Topic attribute names.
const (
	QueueType     = "queue.type"
	CleanupPolicy = "cleanup.policy"
	MessageType   = "message.type"
	ReserveTime   = "reserve.time"
)

// TopicAttributes returns the schema of attributes a topic may carry.
func TopicAttributes() map[string]Attribute {
	attrs := []Attribute{
		NewEnum(QueueType, false, []string{"BatchCQ", "SimpleCQ"}, "SimpleCQ"),
		NewEnum(CleanupPolicy, false, []string{"DELETE", "COMPACTION"}, "DELETE"),
		NewEnum(MessageType, true, []string{"UNSPECIFIED", "NORMAL", "FIFO", "DELAY", "TRANSACTION", "MIXED"}, "NORMAL"),
		NewLong(ReserveTime, true, -1, math.MaxInt32, -1),
	}

	schema := make(map[string]Attribute, len(attrs))
	for _, a := range attrs {
		schema[a.Name()] = a
	}
	return schema
}
