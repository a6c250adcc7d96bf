// Package queue provides a single-lane FIFO for asynchronous operations.
package queue

import (
	"sync"
)

// Op is an asynchronous operation submitted to the lane. Its error is
// absorbed by the lane; callers that care about outcomes must observe
// them through side effects.
type Op func() error

// Queue serializes operations so they run one at a time, in submission
// order. A failing operation does not stop the lane. The zero value is
// not usable; create instances with New. One queue per capture session.
type Queue struct {
	mu   sync.Mutex
	tail chan struct{}
}

// New creates an empty queue whose lane is immediately drained.
func New() *Queue {
	tail := make(chan struct{})
	close(tail)
	return &Queue{tail: tail}
}

// Enqueue schedules op to run after every previously enqueued operation
// has settled. It returns immediately; it never waits for op itself.
func (q *Queue) Enqueue(op Op) {
	done := make(chan struct{})

	q.mu.Lock()
	prev := q.tail
	q.tail = done
	q.mu.Unlock()

	go func() {
		defer close(done)
		<-prev
		absorb(op)
	}()
}

// Wait blocks until every operation enqueued before the call has settled.
// Operations enqueued afterwards are not waited for.
func (q *Queue) Wait() {
	q.mu.Lock()
	tail := q.tail
	q.mu.Unlock()
	<-tail
}

// absorb runs op and swallows both its error and any panic, keeping the
// lane alive. The silent-failure contract lives here, at the chaining
// boundary, rather than in the operations themselves.
func absorb(op Op) {
	defer func() {
		_ = recover()
	}()
	_ = op()
}
