package containers

import "sync"

// Queue is an unbounded multi-producer/single-consumer command queue.
// Push never blocks beyond the internal critical section and never fails;
// Drain atomically claims everything enqueued at call time. Ordering is
// guaranteed per producer only -- interleaving across producers is
// whatever the lock hands out, and consumers that need a global order
// must sort the drained slice themselves.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends a value to the queue.
func (q *Queue[T]) Push(value T) {
	q.mu.Lock()
	q.items = append(q.items, value)
	q.mu.Unlock()
}

// Drain claims and returns all queued values, leaving the queue empty.
// The returned slice is owned by the caller; a second Drain with no
// pushes in between returns nil.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	drained := q.items
	q.items = nil
	q.mu.Unlock()
	return drained
}

// Len reports how many values are queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
