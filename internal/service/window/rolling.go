package window

// Rolling is a bounded FIFO that keeps the most recent values in insertion order.
// It is not safe for concurrent use; the owning event loop serializes access.
type Rolling[T any] struct {
	cap   int
	items []T
}

// New creates a window holding at most capacity values (minimum 1).
func New[T any](capacity int) *Rolling[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Rolling[T]{cap: capacity, items: make([]T, 0, capacity)}
}

// Push appends v, evicting the oldest value when the window is full.
func (r *Rolling[T]) Push(v T) {
	if len(r.items) == r.cap {
		copy(r.items, r.items[1:])
		r.items[len(r.items)-1] = v
		return
	}
	r.items = append(r.items, v)
}

// Snapshot returns a copy of the values, oldest first.
func (r *Rolling[T]) Snapshot() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Rolling[T]) Len() int { return len(r.items) }

func (r *Rolling[T]) Cap() int { return r.cap }
