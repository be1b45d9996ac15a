// Package queue implements a fixed-capacity, thread-safe FIFO queue with
// overwrite-on-full push semantics and blocking, timed, and non-blocking
// retrieval.
package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned by PopWithTimeout when no element becomes
	// available before the deadline.
	ErrTimeout = errors.New("queue: timed out waiting for element")
	// ErrInvalidCapacity is returned by New when the capacity is below one.
	ErrInvalidCapacity = errors.New("queue: capacity must be at least 1")
)

// Queue is a bounded FIFO buffer safe for concurrent use. Push never blocks:
// when the queue is full it silently drops the oldest element to make room.
// Pop blocks until an element is available; PopWithTimeout bounds the wait.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	elems    []T
	count    int // live elements, 0..len(elems)
	front    int // index of the oldest element
	rear     int // index of the next write
}

// New returns an empty queue holding at most capacity elements.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	q := &Queue[T]{elems: make([]T, capacity)}
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// MustNew is New for capacities known to be valid. It panics on error.
func MustNew[T any](capacity int) *Queue[T] {
	q, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return q
}

// Push appends v to the queue, dropping the oldest element if the queue is
// full, and wakes one waiting consumer. It never blocks and never fails.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == len(q.elems) {
		q.front = (q.front + 1) % len(q.elems) // drop the oldest
	} else {
		q.count++
	}
	q.elems[q.rear] = v
	q.rear = (q.rear + 1) % len(q.elems)

	q.notEmpty.Signal()
}

// Pop removes and returns the oldest element, blocking as long as the queue
// is empty.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 {
		q.notEmpty.Wait()
	}
	return q.popLocked()
}

// PopWithTimeout is Pop with a bounded wait. It returns ErrTimeout if no
// element becomes available within d, leaving the queue unchanged. A
// non-positive d checks once and fails immediately when the queue is empty.
func (q *Queue[T]) PopWithTimeout(d time.Duration) (T, error) {
	deadline := time.Now().Add(d)

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, ErrTimeout
		}
		// The deadline wakeup must reach this waiter even if a concurrent
		// Push signals a different one, so the timer broadcasts.
		t := time.AfterFunc(remaining, q.notEmpty.Broadcast)
		q.notEmpty.Wait()
		t.Stop()
	}
	return q.popLocked(), nil
}

func (q *Queue[T]) popLocked() T {
	v := q.elems[q.front]
	q.front = (q.front + 1) % len(q.elems)
	q.count--
	return v
}

// Count reports the number of elements currently in the queue. The value may
// be stale by the time the caller acts on it.
func (q *Queue[T]) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Size reports the fixed capacity set at construction.
func (q *Queue[T]) Size() int {
	return len(q.elems)
}
