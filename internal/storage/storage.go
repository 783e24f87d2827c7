// Package storage provides keyed record storage for profiles, plan pairs and
// chat transcripts. The in-memory implementation is the default; the Redis
// implementation satisfies the same contract for deployments that need the
// data to survive a restart.
package storage

import (
	"iter"
	"maps"
	"sync"
)

// Store is a mapping from profile id to record. Absence is not a fault;
// callers treat it as "not found". Writes to a given id are linearizable.
type Store[V any] interface {
	// Put stores v under id, overwriting any previous record.
	Put(id string, v V) error
	// Get returns the record under id, or false when absent.
	Get(id string) (V, bool)
	// Delete removes the record under id. Deleting an absent id is a no-op;
	// a non-nil error means the record may still be present.
	Delete(id string) error
	// All yields every (id, record) pair. The sequence is finite and
	// restartable; iteration order is unspecified.
	All() iter.Seq2[string, V]
}

// MemoryStore keeps records in a process-local map.
type MemoryStore[V any] struct {
	mu      sync.RWMutex
	records map[string]V
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{records: make(map[string]V)}
}

func (s *MemoryStore[V]) Put(id string, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = v
	return nil
}

func (s *MemoryStore[V]) Get(id string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[id]
	return v, ok
}

func (s *MemoryStore[V]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// All snapshots the map under the read lock so callers can mutate the store
// while iterating.
func (s *MemoryStore[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		s.mu.RLock()
		snapshot := maps.Clone(s.records)
		s.mu.RUnlock()
		for id, v := range snapshot {
			if !yield(id, v) {
				return
			}
		}
	}
}

// Len reports the number of stored records.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
