package msgstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	c := NewCounter(5)
	assert.Equal(t, int64(5), c.StateMachineVersion())

	assert.Equal(t, int64(6), c.Advance())
	assert.False(t, c.Set(3), "Set must not move the version backwards")
	assert.Equal(t, int64(6), c.StateMachineVersion())
	assert.True(t, c.Set(10))
	assert.Equal(t, int64(10), c.StateMachineVersion())
}

func TestCounter_ConcurrentAdvance(t *testing.T) {
	c := NewCounter(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), c.StateMachineVersion())
}
