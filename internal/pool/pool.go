package pool

import "sync/atomic"

// Resettable is a constraint for types that can clear themselves for reuse.
type Resettable interface {
	Reset()
}

// Poolable is a constraint for types that can be pooled.
type Poolable interface {
	Resettable
	comparable
}

// Pool is a bounded free list of reusable objects of type T, such as the
// buffers pages are rendered into.
type Pool[T Poolable] struct {
	items   chan T
	newItem func() T
	misses  atomic.Int64
}

// New creates a Pool holding at most capacity idle objects. newItem builds an
// object whenever the pool is empty.
func New[T Poolable](capacity int, newItem func() T) *Pool[T] {
	return &Pool[T]{
		items:   make(chan T, capacity),
		newItem: newItem,
	}
}

// Get returns an idle object, or a new one when none is left.
func (p *Pool[T]) Get() T {
	select {
	case item := <-p.items:
		return item
	default:
		p.misses.Add(1)
		return p.newItem()
	}
}

// Put resets item and keeps it for reuse. Zero values are dropped, and so is
// anything beyond the pool's capacity.
func (p *Pool[T]) Put(item T) {
	var zero T
	if item == zero {
		return
	}
	item.Reset()

	select {
	case p.items <- item:
	default:
	}
}

// Idle returns the number of objects waiting for reuse.
func (p *Pool[T]) Idle() int {
	return len(p.items)
}

// Misses returns how many times Get had to build a new object.
func (p *Pool[T]) Misses() int64 {
	return p.misses.Load()
}
