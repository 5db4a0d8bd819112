// ABOUTME: Generic optimistic mirror over a synchronized document
// ABOUTME: Setters resolve against the fresh current value under the mutex

package state

import (
	"sync"

	"github.com/vsdcomms/salesdesk/docstore"
)

// Mirror holds the in-memory copy of one synchronized document. Setters
// apply synchronously to local state and enqueue the remote write without
// awaiting it, so N setter calls fold left-to-right over the current value
// no matter how slow the backend is.
type Mirror[T any] struct {
	mu      sync.Mutex
	current T
	docID   string
	store   *docstore.Store
}

func newMirror[T any](store *docstore.Store, docID string, initial T) *Mirror[T] {
	return &Mirror[T]{
		current: initial,
		docID:   docID,
		store:   store,
	}
}

// Current returns the in-memory value.
func (m *Mirror[T]) Current() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set overwrites the value and enqueues the remote write. The write is
// issued after the mirror unlocks: a poll dispatch holds the store mutex
// while replacing mirrors, so a setter must never wait on the store while
// holding the mirror lock.
func (m *Mirror[T]) Set(v T) {
	m.mu.Lock()
	m.current = v
	m.mu.Unlock()
	m.store.Write(m.docID, v)
}

// Update applies fn to the freshly-read current value under the mutex.
// Callers must not capture a stale copy; fn receives the latest state.
func (m *Mirror[T]) Update(fn func(T) T) {
	m.mu.Lock()
	m.current = fn(m.current)
	v := m.current
	m.mu.Unlock()
	m.store.Write(m.docID, v)
}

// replace installs a remote snapshot without re-publishing it.
// Remote data always wins over whatever is held locally.
func (m *Mirror[T]) replace(v T) {
	m.mu.Lock()
	m.current = v
	m.mu.Unlock()
}
