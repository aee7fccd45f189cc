package topicmgr

import (
	"fmt"
	"time"
)

// DataVersion is the logical clock stamped on every snapshot of the topic table.
// Readers compare versions to detect a stale view without diffing the table.
//
// The zero value is a valid initial version. A DataVersion is owned by the
// Registry and only advanced while the table guard is held.
type DataVersion struct {
	Timestamp    int64 `json:"timestamp"`
	Counter      int64 `json:"counter"`
	StateVersion int64 `json:"stateVersion"`
}

// Next advances the version: the counter is incremented, the message store's
// state machine version is recorded and the timestamp moves to now, never backwards.
func (v *DataVersion) Next(stateVersion int64, now time.Time) {
	ts := now.UnixMilli()
	if ts < v.Timestamp {
		ts = v.Timestamp
	}
	v.Timestamp = ts
	v.StateVersion = stateVersion
	v.Counter++
}

// Assign replaces v with other.
func (v *DataVersion) Assign(other DataVersion) {
	*v = other
}

// Compare orders versions by state version, then counter, then timestamp.
// It returns -1, 0 or 1.
func (v DataVersion) Compare(other DataVersion) int {
	switch {
	case v.StateVersion != other.StateVersion:
		return cmpInt64(v.StateVersion, other.StateVersion)
	case v.Counter != other.Counter:
		return cmpInt64(v.Counter, other.Counter)
	default:
		return cmpInt64(v.Timestamp, other.Timestamp)
	}
}

// Equal reports whether both versions are identical.
func (v DataVersion) Equal(other DataVersion) bool {
	return v == other
}

func (v DataVersion) String() string {
	return fmt.Sprintf("DataVersion{stateVersion=%d, timestamp=%d, counter=%d}", v.StateVersion, v.Timestamp, v.Counter)
}

func cmpInt64(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
