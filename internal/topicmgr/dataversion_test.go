package topicmgr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDataVersion_Next(t *testing.T) {
	var v DataVersion
	now := time.UnixMilli(5000)

	v.Next(7, now)
	assert.Equal(t, DataVersion{Timestamp: 5000, Counter: 1, StateVersion: 7}, v)

	// A clock moving backwards must not move the timestamp backwards.
	v.Next(7, time.UnixMilli(4000))
	assert.Equal(t, int64(5000), v.Timestamp)
	assert.Equal(t, int64(2), v.Counter)
}

func TestDataVersion_Compare(t *testing.T) {
	base := DataVersion{Timestamp: 10, Counter: 5, StateVersion: 3}

	tests := []struct {
		name  string
		other DataVersion
		want  int
	}{
		{"equal", base, 0},
		{"state version wins over counter", DataVersion{Timestamp: 10, Counter: 99, StateVersion: 2}, 1},
		{"counter breaks state tie", DataVersion{Timestamp: 10, Counter: 6, StateVersion: 3}, -1},
		{"timestamp breaks counter tie", DataVersion{Timestamp: 9, Counter: 5, StateVersion: 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Compare(tt.other))
			assert.Equal(t, -tt.want, tt.other.Compare(base))
		})
	}
}

func TestDataVersion_Assign(t *testing.T) {
	var v DataVersion
	other := DataVersion{Timestamp: 1, Counter: 2, StateVersion: 3}
	v.Assign(other)
	assert.True(t, v.Equal(other))
	assert.Contains(t, v.String(), "counter=2")
}
