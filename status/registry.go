// Package status keeps the live counters of a running simulation
// Writers cache the pointer of a key once; reads and writes after that are lock-free
package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Map is a named set of values of type T
type Map[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func newMap[T any]() *Map[T] {
	return &Map[T]{items: make(map[string]*T)}
}

// Get returns the value for key, allocating it on first use
func (m *Map[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

func (m *Map[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Range visits every value in key order
func (m *Map[T]) Range(fn func(key string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, m.items[k])
	}
}

func (m *Map[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Registry groups the value maps by type
type Registry struct {
	Bools   *Map[atomic.Bool]
	Ints    *Map[atomic.Int64]
	Floats  *Map[AtomicFloat]
	Strings *Map[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   newMap[atomic.Bool](),
		Ints:    newMap[atomic.Int64](),
		Floats:  newMap[AtomicFloat](),
		Strings: newMap[AtomicString](),
	}
}

// Len returns the number of keys across all maps
func (r *Registry) Len() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len() + r.Strings.Len()
}

// Snapshot copies every value into a plain map for encoding
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.Len())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = v.Get() })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}
