// Package state provides the observable value holders the controllers
// publish through. Each holder is single-writer (the owning controller)
// and multi-reader (handlers, tests).
package state

import "sync"

// Holder keeps a current value and a subscriber list. Writes replace the
// value wholesale and notify every subscriber with the new value; last
// writer wins under concurrent Set calls.
type Holder[T any] struct {
	mu        sync.RWMutex
	value     T
	listeners map[int]func(T)
	nextID    int
}

// NewHolder creates a holder seeded with an initial value.
func NewHolder[T any](initial T) *Holder[T] {
	return &Holder[T]{
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

// Get returns the current value.
func (h *Holder[T]) Get() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value
}

// Set replaces the current value and notifies subscribers. Listeners run
// on the caller's goroutine, after the holder's lock is released, so a
// listener may call back into the holder without deadlocking.
func (h *Holder[T]) Set(value T) {
	h.mu.Lock()
	h.value = value
	notify := make([]func(T), 0, len(h.listeners))
	for _, fn := range h.listeners {
		notify = append(notify, fn)
	}
	h.mu.Unlock()

	for _, fn := range notify {
		fn(value)
	}
}

// Subscribe registers a listener for future values and returns a cancel
// function. The listener is not called with the current value; use Get
// for the initial read.
func (h *Holder[T]) Subscribe(fn func(T)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}
