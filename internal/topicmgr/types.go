package topicmgr

import (
	"context"
	"fmt"
	"io"
	"maps"
)

const (
	// DefaultReadQueueNums is used for topics created without an explicit queue count.
	DefaultReadQueueNums uint32 = 16
	// DefaultWriteQueueNums is used for topics created without an explicit queue count.
	DefaultWriteQueueNums uint32 = 16
)

// FilterType selects how consumers filter messages of a topic by tag.
type FilterType string

const (
	FilterSingleTag FilterType = "SINGLE_TAG"
	FilterMultiTag  FilterType = "MULTI_TAG"
)

// TopicConfig is the registry's view of one topic: queue layout, permissions and attributes.
// It is a value type; the registry hands out copies and never shares the attribute map.
type TopicConfig struct {
	TopicName       string            `json:"topicName"`
	ReadQueueNums   uint32            `json:"readQueueNums"`
	WriteQueueNums  uint32            `json:"writeQueueNums"`
	Perm            Perm              `json:"perm"`
	TopicFilterType FilterType        `json:"topicFilterType"`
	TopicSysFlag    uint32            `json:"topicSysFlag"`
	Order           bool              `json:"order"`
	Attributes      map[string]string `json:"attributes"`
}

// NewTopicConfig returns a config for name with the default queue counts and read/write permission.
func NewTopicConfig(name string) TopicConfig {
	return TopicConfig{
		TopicName:       name,
		ReadQueueNums:   DefaultReadQueueNums,
		WriteQueueNums:  DefaultWriteQueueNums,
		Perm:            PermRead | PermWrite,
		TopicFilterType: FilterSingleTag,
		Attributes:      map[string]string{},
	}
}

// NewTopicConfigWithQueues returns a read/write config with the given queue counts.
func NewTopicConfigWithQueues(name string, read, write uint32) TopicConfig {
	cfg := NewTopicConfig(name)
	cfg.ReadQueueNums = read
	cfg.WriteQueueNums = write
	return cfg
}

// NewTopicConfigWithPerm returns a config with the given queue counts and permission.
func NewTopicConfigWithPerm(name string, read, write uint32, perm Perm) TopicConfig {
	cfg := NewTopicConfigWithQueues(name, read, write)
	cfg.Perm = perm
	return cfg
}

// Clone returns a deep copy of the config.
func (c TopicConfig) Clone() TopicConfig {
	out := c
	out.Attributes = maps.Clone(c.Attributes)
	if out.Attributes == nil {
		out.Attributes = map[string]string{}
	}
	return out
}

// String returns a compact description for logging.
func (c TopicConfig) String() string {
	return fmt.Sprintf("TopicConfig{name=%s read=%d write=%d perm=%s filter=%s sysFlag=%d order=%t attrs=%v}",
		c.TopicName, c.ReadQueueNums, c.WriteQueueNums, c.Perm, c.TopicFilterType, c.TopicSysFlag, c.Order, c.Attributes)
}

// StateVersioner is implemented by the message store. The returned value advances
// monotonically with the persisted log and is folded into every DataVersion advance.
type StateVersioner interface {
	StateMachineVersion() int64
}

// Registrar receives newly created or changed topic configs for propagation to the
// naming layer. Implementations must not block the caller.
type Registrar interface {
	Register(cfg TopicConfig, dv DataVersion)
}

// Snapshotter persists and reads the encoded topic table.
type Snapshotter interface {
	Save(ctx context.Context, path string, r io.Reader) (int64, error)
	Load(ctx context.Context, path string) ([]byte, error)
}

// TopicError represents structured errors in the topic management system
type TopicError struct {
	Type    ErrorType `json:"type"`
	Topic   string    `json:"topic"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// ErrorType defines the type of topic management error
type ErrorType string

const (
	ErrorTopicNotFound    ErrorType = "topic_not_found"
	ErrorValidationFailed ErrorType = "validation_failed"
	ErrorInvalidName      ErrorType = "invalid_name"
	ErrorPersistFailed    ErrorType = "persist_failed"
	ErrorDecodeFailed     ErrorType = "decode_failed"
)

// Error implements the error interface
func (e *TopicError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *TopicError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a TopicError of the same type, so callers can match
// with errors.Is(err, &TopicError{Type: ErrorPersistFailed}).
func (e *TopicError) Is(target error) bool {
	t, ok := target.(*TopicError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}
