package topicmgr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_ValidateName(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		topic   string
		wantErr bool
	}{
		{"simple", "orders", false},
		{"retry topic", "%RETRY%group_1", false},
		{"with pipe and dash", "a|b-c", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"space", "bad topic", true},
		{"dot", "a.b", true},
		{"max length", strings.Repeat("x", MaxTopicNameLength), false},
		{"too long", strings.Repeat("x", MaxTopicNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateName(tt.topic)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_SystemTopics(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.IsSystemTopic(AutoCreateTopicKeyTopic))
	assert.True(t, v.IsSystemTopic("rmq_sys_anything"))
	assert.False(t, v.IsSystemTopic("orders"))

	v.AddSystemTopic("orders")
	assert.True(t, v.IsSystemTopic("orders"))
	assert.Contains(t, v.SystemTopics(), "orders")
}

func TestPerm(t *testing.T) {
	p := PermInherit | PermRead | PermWrite
	assert.True(t, p.IsInherited())
	assert.True(t, p.IsReadable())
	assert.True(t, p.IsWriteable())
	assert.False(t, p.IsPriority())
	assert.Equal(t, "RWX", p.String())
	assert.Equal(t, "R--", PermRead.String())
	assert.Equal(t, Perm(6), PermRead|PermWrite)

	assert.Equal(t, uint32(0), BuildSysFlag(false, false))
	assert.Equal(t, uint32(3), BuildSysFlag(true, true))
}
