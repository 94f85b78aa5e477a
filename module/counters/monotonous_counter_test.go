package counters

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonotonousCounter(t *testing.T) {
	counter := NewMonotonousCounter(5)
	assert.Equal(t, uint64(5), counter.Value())

	assert.True(t, counter.Set(8))
	assert.Equal(t, uint64(8), counter.Value())

	// equal and lower values are rejected
	assert.False(t, counter.Set(8))
	assert.False(t, counter.Set(3))
	assert.Equal(t, uint64(8), counter.Value())
}

func TestMonotonousCounterConcurrent(t *testing.T) {
	counter := NewMonotonousCounter(0)

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			counter.Set(v)
		}(uint64(i))
	}
	wg.Wait()

	assert.Equal(t, uint64(100), counter.Value())
}
