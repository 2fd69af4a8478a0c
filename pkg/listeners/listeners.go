// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listeners provides a small, concurrency-safe registry of change
callbacks used by the stores to announce state transitions.

Callbacks run synchronously, in registration order, on the goroutine that
called [Set.Notify]. Stores always notify after releasing their own lock so a
callback may read the store it is observing.
*/
package listeners

import "sync"

type entry struct {
	id int
	fn func()
}

// Set holds registered callbacks. The zero value is ready to use.
type Set struct {
	mu      sync.Mutex
	nextID  int
	entries []entry
}

// Add registers fn and returns a function that unregisters it.
func (s *Set) Add(fn func()) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, entry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, e := range s.entries {
			if e.id == id {
				s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
				return
			}
		}
	}
}

// Notify invokes every registered callback.
func (s *Set) Notify() {
	s.mu.Lock()
	snapshot := make([]entry, len(s.entries))
	copy(snapshot, s.entries)
	s.mu.Unlock()

	for _, e := range snapshot {
		e.fn()
	}
}
