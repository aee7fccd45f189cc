package topicmgr

import (
	"context"
	"time"
)

// CreateLockTimeout bounds how long an auto-create attempt waits for the creation lock.
const CreateLockTimeout = 3 * time.Second

// timedLock is a mutex whose acquisition can give up after a timeout or on context
// cancellation. It is not re-entrant; no code path in this package takes it twice.
type timedLock struct {
	ch chan struct{}
}

func newTimedLock() *timedLock {
	return &timedLock{ch: make(chan struct{}, 1)}
}

// TryLockFor waits up to d for the lock. It reports whether the lock was acquired.
func (l *timedLock) TryLockFor(ctx context.Context, d time.Duration) bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case l.ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Unlock releases the lock. Unlocking an unlocked timedLock panics.
func (l *timedLock) Unlock() {
	select {
	case <-l.ch:
	default:
		panic("topicmgr: unlock of unlocked creation lock")
	}
}
