package graph

import "sync"

// PrefixMapping is a mutex-guarded prefix -> namespace IRI table, the
// only piece of shared mutable state beyond a graph's triples.
type PrefixMapping struct {
	mu    sync.RWMutex
	table map[string]string
}

// NewPrefixMapping creates an empty prefix mapping.
func NewPrefixMapping() *PrefixMapping {
	return &PrefixMapping{table: make(map[string]string)}
}

// Set associates prefix with namespace, replacing any prior binding.
func (m *PrefixMapping) Set(prefix, namespace string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table[prefix] = namespace
}

// Get returns the namespace bound to prefix, and whether a binding
// exists.
func (m *PrefixMapping) Get(prefix string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.table[prefix]
	return ns, ok
}

// Remove deletes a prefix's binding, if any.
func (m *PrefixMapping) Remove(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.table, prefix)
}

// Each calls fn once per (prefix, namespace) pair. fn must not call
// back into the PrefixMapping.
func (m *PrefixMapping) Each(fn func(prefix, namespace string)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for p, ns := range m.table {
		fn(p, ns)
	}
}

// Len returns the number of bindings.
func (m *PrefixMapping) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.table)
}
