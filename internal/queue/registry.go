package queue

import (
	"sync"
	"time"
)

// Registry hands out named message queues, creating each on first use with
// the registry's fixed capacity.
type Registry struct {
	mu       sync.Mutex
	capacity int
	queues   map[string]*Queue[[]byte]
}

// NewRegistry returns a registry whose queues hold at most capacity messages.
func NewRegistry(capacity int) (*Registry, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Registry{
		capacity: capacity,
		queues:   make(map[string]*Queue[[]byte]),
	}, nil
}

// GetOrCreate returns the queue registered under name, creating it if needed.
func (r *Registry) GetOrCreate(name string) *Queue[[]byte] {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[name]
	if !ok {
		q = MustNew[[]byte](r.capacity)
		r.queues[name] = q
	}
	return q
}

// PushWithName pushes a copy of msg onto the named queue. The copy keeps the
// queue independent of buffers the caller may reuse.
func (r *Registry) PushWithName(name string, msg []byte) {
	copied := make([]byte, len(msg))
	copy(copied, msg)
	r.GetOrCreate(name).Push(copied)
}

// PopWithName pops from the named queue, waiting up to timeout for a message.
func (r *Registry) PopWithName(name string, timeout time.Duration) ([]byte, error) {
	return r.GetOrCreate(name).PopWithTimeout(timeout)
}
