// Package observe provides a publish/subscribe value cell.
package observe

import "sync"

// Value holds the current value of type T and notifies listeners every time
// it is replaced. Notification is coarse: listeners receive the whole new
// value, never a diff.
//
// Set replaces the value wholesale. Callers must treat values they publish
// or receive as immutable, which is what lets readers share them without
// copying.
//
// Thread-safety: Value is safe for concurrent use. Listeners run on the
// goroutine that called Set, after the internal lock is released, in
// subscription order.
type Value[T any] struct {
	mu        sync.Mutex
	cur       T
	listeners map[int]func(T)
	order     []int
	nextID    int
}

// NewValue creates a cell holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, listeners: make(map[int]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set replaces the value and notifies every listener.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.cur = next
	fns := make([]func(T), 0, len(v.order))
	for _, id := range v.order {
		fns = append(fns, v.listeners[id])
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// Subscribe registers fn and returns a function that unregisters it.
// The returned function is safe to call more than once.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.order = append(v.order, id)

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.listeners[id]; !ok {
			return
		}
		delete(v.listeners, id)
		for i, other := range v.order {
			if other == id {
				v.order = append(v.order[:i:i], v.order[i+1:]...)
				break
			}
		}
	}
}

// Listeners returns the number of registered listeners.
func (v *Value[T]) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}
