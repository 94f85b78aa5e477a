package counters

import (
	"go.uber.org/atomic"
)

// StrictMonotonousCounter is a helper struct which implements a strict
// monotonous counter. It is implemented using atomic operations with no
// allocations, so it is safe to pass by value.
type StrictMonotonousCounter struct {
	atomicCounter *atomic.Uint64
}

// NewMonotonousCounter creates a new counter with the given initial value.
func NewMonotonousCounter(initialValue uint64) StrictMonotonousCounter {
	return StrictMonotonousCounter{
		atomicCounter: atomic.NewUint64(initialValue),
	}
}

// Set updates the value of the counter if it is strictly larger than the
// value already stored. Returns true if the value was updated.
func (c StrictMonotonousCounter) Set(processing uint64) bool {
	for {
		current := c.Value()
		if processing <= current {
			return false
		}
		if c.atomicCounter.CompareAndSwap(current, processing) {
			return true
		}
	}
}

// Value returns the current value of the counter.
func (c StrictMonotonousCounter) Value() uint64 {
	return c.atomicCounter.Load()
}
