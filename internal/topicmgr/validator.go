package topicmgr

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// MaxTopicNameLength is the longest topic name the broker accepts.
const MaxTopicNameLength = 127

// Validator checks topic names and tracks which topics are reserved for broker internals.
type Validator struct {
	// namePattern defines valid topic name characters
	namePattern *regexp.Regexp

	mu           sync.RWMutex
	systemTopics map[string]struct{}
}

// NewValidator creates a new topic validator pre-loaded with the fixed system topics.
func NewValidator() *Validator {
	v := &Validator{
		namePattern:  regexp.MustCompile(`^[%|a-zA-Z0-9_-]+$`),
		systemTopics: make(map[string]struct{}),
	}
	for _, topic := range fixedSystemTopics {
		v.systemTopics[topic] = struct{}{}
	}
	return v
}

// ValidateName checks if a topic name follows the naming convention
func (v *Validator) ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("topic name cannot be empty")
	}

	if len(name) > MaxTopicNameLength {
		return fmt.Errorf("topic name too long (max %d characters)", MaxTopicNameLength)
	}

	if !v.namePattern.MatchString(name) {
		return fmt.Errorf("topic name %q contains illegal characters, allowed: %s", name, v.namePattern.String())
	}

	return nil
}

// AddSystemTopic marks topic as reserved for broker internals.
func (v *Validator) AddSystemTopic(topic string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.systemTopics[topic] = struct{}{}
}

// IsSystemTopic reports whether topic is reserved for broker internals.
func (v *Validator) IsSystemTopic(topic string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if _, ok := v.systemTopics[topic]; ok {
		return true
	}
	return strings.HasPrefix(topic, SystemTopicPrefix)
}

// SystemTopics returns the reserved topic names.
func (v *Validator) SystemTopics() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]string, 0, len(v.systemTopics))
	for topic := range v.systemTopics {
		out = append(out, topic)
	}
	return out
}
