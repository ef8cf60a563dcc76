// Package store provides a snapshot state container with serialized,
// atomic mutations and fan-out change notification.
//
// Writers apply a mutation function to a private copy of the state; the copy
// is swapped in as the new snapshot under a single lock, so readers never
// observe a half-applied mutation and there is at most one writer at a time.
package store

import "sync"

// CloneFn produces a deep copy of the state. Mutations run against the copy,
// never against the live snapshot.
type CloneFn[T any] func(T) T

// Listener receives the new state snapshot after each mutation.
type Listener[T any] func(T)

// Store holds a state snapshot of type T.
type Store[T any] struct {
	mu        sync.RWMutex
	state     T
	clone     CloneFn[T]
	listeners map[int]Listener[T]
	nextID    int
}

// New creates a Store with the given initial state and clone function.
func New[T any](initial T, clone CloneFn[T]) *Store[T] {
	if clone == nil {
		panic("store: nil clone function")
	}
	return &Store[T]{
		state:     clone(initial),
		clone:     clone,
		listeners: make(map[int]Listener[T]),
	}
}

// GetState returns a copy of the current snapshot. Callers may read or modify
// the copy freely; it shares nothing with the live state.
func (s *Store[T]) GetState() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.state)
}

// SetState applies mutate to a copy of the current state and atomically swaps
// it in, returning a copy of the committed snapshot. Mutations are
// serialized; the listeners observe every committed snapshot in order.
func (s *Store[T]) SetState(mutate func(*T)) T {
	s.mu.Lock()

	next := s.clone(s.state)
	mutate(&next)
	s.state = next

	listeners := make([]Listener[T], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	snapshot := s.clone(next)
	s.mu.Unlock()

	// Notify outside the lock. Listeners share one snapshot copy and must
	// treat it as read-only.
	for _, l := range listeners {
		l(snapshot)
	}

	return s.clone(snapshot)
}

// Subscribe registers a listener and returns an unsubscribe function.
func (s *Store[T]) Subscribe(l Listener[T]) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
