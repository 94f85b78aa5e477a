// Package fifoqueue implements a FIFO queue with first-in-first-out semantics
// and a bounded capacity, used as the backing store for engine mailboxes.
package fifoqueue

import (
	"fmt"
	"math"
	"sync"

	"github.com/ef-ds/deque"
)

// CapacityUnlimited corresponds to the largest supported queue capacity.
const CapacityUnlimited = math.MaxInt32

// FifoQueue implements a FIFO queue. It is safe for concurrent use by
// multiple producers and consumers.
type FifoQueue struct {
	mu             sync.RWMutex
	queue          deque.Deque
	maxCapacity    int
	lengthObserver QueueLengthObserver
}

// ConstructorOption can be used to provide optional constructor parameters.
type ConstructorOption func(*FifoQueue) error

// QueueLengthObserver is a callback that is invoked with the queue length
// after every push and pop.
type QueueLengthObserver func(int)

// WithCapacity is a constructor option to specify the max queue capacity.
// The option accepts values in the range [1, CapacityUnlimited].
func WithCapacity(capacity int) ConstructorOption {
	return func(queue *FifoQueue) error {
		if capacity < 1 {
			return fmt.Errorf("capacity for FifoQueue must be positive")
		}
		queue.maxCapacity = capacity
		return nil
	}
}

// WithLengthObserver is a constructor option to register a callback observing
// the queue length. The callback is executed within the queue's lock, so it
// must be non-blocking.
func WithLengthObserver(callback QueueLengthObserver) ConstructorOption {
	return func(queue *FifoQueue) error {
		if callback == nil {
			return fmt.Errorf("nil is not a valid QueueLengthObserver")
		}
		queue.lengthObserver = callback
		return nil
	}
}

// NewFifoQueue is the constructor for FifoQueue.
func NewFifoQueue(options ...ConstructorOption) (*FifoQueue, error) {
	queue := &FifoQueue{
		maxCapacity:    CapacityUnlimited,
		lengthObserver: func(int) {},
	}
	for _, opt := range options {
		if err := opt(queue); err != nil {
			return nil, fmt.Errorf("failed to apply constructor option: %w", err)
		}
	}
	return queue, nil
}

// Push appends the given value to the tail of the queue. If the queue is at
// capacity, the value is discarded and Push returns false.
func (q *FifoQueue) Push(element interface{}) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.queue.Len() >= q.maxCapacity {
		return false
	}
	q.queue.PushBack(element)
	q.lengthObserver(q.queue.Len())
	return true
}

// Front peeks at the head of the queue without removing it.
func (q *FifoQueue) Front() (interface{}, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.queue.Front()
}

// Pop removes and returns the head of the queue.
func (q *FifoQueue) Pop() (interface{}, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	element, ok := q.queue.PopFront()
	if !ok {
		return nil, false
	}
	q.lengthObserver(q.queue.Len())
	return element, true
}

// Len returns the current length of the queue.
func (q *FifoQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.queue.Len()
}
