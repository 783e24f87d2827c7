package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps stable backend identifiers to their TextGenerator clients.
// Sessions hold an identifier, not a client, so switching backends never
// requires a restart.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]TextGenerator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]TextGenerator)}
}

// Register adds a backend under the given identifier, replacing any previous
// registration.
func (r *Registry) Register(id string, gen TextGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[id] = gen
}

// Get returns the backend registered under id.
func (r *Registry) Get(id string) (TextGenerator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.backends[id]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", id)
	}
	return gen, nil
}

// IDs returns the registered backend identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.backends))
	for id := range r.backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every registered backend that supports closing.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for id, gen := range r.backends {
		if closer, ok := gen.(Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to close backend %s: %w", id, err)
			}
		}
	}
	return firstErr
}
