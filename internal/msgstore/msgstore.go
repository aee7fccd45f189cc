// Package msgstore exposes the message log's state machine version to the rest of the broker.
package msgstore

import "sync/atomic"

// Counter is a monotonic state machine version. The broker advances it whenever the
// message log commits; the topic registry folds it into every DataVersion advance.
type Counter struct {
	v atomic.Int64
}

// NewCounter returns a counter starting at start.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.v.Store(start)
	return c
}

// StateMachineVersion returns the current version.
func (c *Counter) StateMachineVersion() int64 {
	return c.v.Load()
}

// Advance increments the version and returns the new value.
func (c *Counter) Advance() int64 {
	return c.v.Add(1)
}

// Set moves the version to v if v is ahead of the current value. It reports whether it moved.
func (c *Counter) Set(v int64) bool {
	for {
		cur := c.v.Load()
		if v <= cur {
			return false
		}
		if c.v.CompareAndSwap(cur, v) {
			return true
		}
	}
}
