// Package policy defines the contract shared by the eviction stores the
// adaptive cache switches between.
package policy

// Entry is a detached key/value pair, used when a store is enumerated
// (e.g. to migrate its contents into another store).
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Evicted is called by a store right after it drops an entry to make room
// for a new key. It is never called for Clear.
type Evicted[K comparable, V any] func(k K, v V)

// Store is a bounded key/value container with a fixed eviction discipline.
// The cache holds exactly two implementations (policy/lru and policy/lfu)
// and routes every call to the one that is currently active.
//
// Stores are not safe for concurrent use; Get mutates eviction order.
type Store[K comparable, V any] interface {
	// Put inserts or updates k→v, evicting one entry first if the store is
	// full and k is new. It reports whether k was already present.
	Put(k K, v V) (found bool)

	// Get returns the value for k and records the access.
	Get(k K) (V, bool)

	// Peek returns the value for k without touching eviction state.
	Peek(k K) (V, bool)

	// Evict removes the entry the discipline would drop next.
	// It returns false if the store is empty.
	Evict() (K, V, bool)

	// Entries returns a snapshot of all resident pairs in the store's
	// natural iteration order (eviction candidates first).
	Entries() []Entry[K, V]

	// Clear drops every entry and all ordering state.
	Clear()

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the fixed capacity.
	Cap() int
}
