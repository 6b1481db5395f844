// Package formdata provides the shared field-value store for a wizard
// session. The store is a key-value bag with change notification; every step
// view reads and writes it by reference, but only the wizard session triggers
// persistence.
package formdata

import (
	"sync"

	"github.com/atriumhq/atrium/pkg/models"
)

// Listener receives a notification after a field changed. A merge fires once
// per written key.
type Listener func(field string, value any)

// Store holds all field values accumulated across wizard steps.
type Store struct {
	mu        sync.RWMutex
	data      models.FormData
	listeners map[int]Listener
	nextID    int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data:      models.FormData{},
		listeners: make(map[int]Listener),
	}
}

// FromSnapshot creates a store pre-populated with a copy of data, used when
// hydrating a session from a persisted draft.
func FromSnapshot(data models.FormData) *Store {
	s := New()
	s.data = data.Clone()

	return s
}

// Get returns the raw value for field and whether it is present.
func (s *Store) Get(field string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[field]

	return v, ok
}

// String returns the string value for field, or "" when absent or not a string.
func (s *Store) String(field string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.String(field)
}

// Number returns the numeric value for field.
func (s *Store) Number(field string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Number(field)
}

// Bool returns the boolean value for field.
func (s *Store) Bool(field string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Bool(field)
}

// Set writes a single field and notifies subscribers.
func (s *Store) Set(field string, value any) {
	s.mu.Lock()
	s.data[field] = value
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(field, value)
	}
}

// Merge adds or overwrites the given keys. It never removes keys that belong
// to other steps: the store is a superset accumulator by design, stale fields
// of steps that became invisible are retained rather than silently dropped.
func (s *Store) Merge(payload models.FormData) {
	if len(payload) == 0 {
		return
	}

	s.mu.Lock()
	for k, v := range payload {
		s.data[k] = v
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for k, v := range payload {
		for _, fn := range listeners {
			fn(k, v)
		}
	}
}

// Snapshot returns a deep copy of the current contents. Every persistence
// call must operate on a snapshot, not the live map, so a later edit cannot
// corrupt an in-flight request body.
func (s *Store) Snapshot() models.FormData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Clone()
}

// Len returns the number of stored fields.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Reset drops every field. Subscribers are kept; they are views, not data.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = models.FormData{}
}

// Subscribe registers a change listener and returns its cancel function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
	}
}

// snapshotListeners must be called with the lock held.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}

	return out
}
