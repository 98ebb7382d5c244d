package renderer

import "sync"

// SliceQueue is the shared stack of pending slices. The lock is held only for the pop.
type SliceQueue struct {
	mu     sync.Mutex
	slices []Slice
}

// NewSliceQueue creates a queue over a copy of slices. Pop returns them last to first.
func NewSliceQueue(slices []Slice) *SliceQueue {
	pending := make([]Slice, len(slices))
	copy(pending, slices)
	return &SliceQueue{slices: pending}
}

// Pop removes and returns the next slice, or false when the queue is empty
func (q *SliceQueue) Pop() (Slice, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.slices)
	if n == 0 {
		return Slice{}, false
	}
	slice := q.slices[n-1]
	q.slices = q.slices[:n-1]
	return slice, true
}

// Len returns the number of slices still pending
func (q *SliceQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.slices)
}

// Counter is a mutex-guarded integer shared between workers and the coordinator
type Counter struct {
	mu    sync.Mutex
	value int64
}

// Add adjusts the counter by delta and returns the new value
func (c *Counter) Add(delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += delta
	return c.value
}

// Value returns the current count
func (c *Counter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
