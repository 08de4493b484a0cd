// Package memo provides a memoized factory keyed by comparable values.
//
// Each key is computed at most once for the lifetime of the Group, even when
// many goroutines ask for the same key concurrently. Callers racing on the
// first access block until the single computation finishes.
package memo

import "sync"

type entry[V any] struct {
	once  sync.Once
	value V
}

// Group memoizes the result of a factory function per key.
// The zero value is ready to use.
type Group[K comparable, V any] struct {
	entries sync.Map // K -> *entry[V]
}

// Get returns the memoized value for key, running factory if this is the
// first request for key. factory runs at most once per key.
func (g *Group[K, V]) Get(key K, factory func() V) V {
	e, _ := g.entries.LoadOrStore(key, &entry[V]{})
	ent := e.(*entry[V])
	ent.once.Do(func() {
		ent.value = factory()
	})
	return ent.value
}
