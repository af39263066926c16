// Package lru implements the recency store: a map plus an intrusive
// MRU↔LRU doubly linked list. All operations are O(1).
package lru

import "github.com/IvanBrykalov/adaptcache/policy"

// node is an intrusive list element (head is MRU, tail is LRU).
type node[K comparable, V any] struct {
	key  K
	val  V
	prev *node[K, V]
	next *node[K, V]
}

// Store is a Least-Recently-Used store. Not safe for concurrent use.
type Store[K comparable, V any] struct {
	m       map[K]*node[K, V]
	head    *node[K, V] // MRU
	tail    *node[K, V] // LRU
	cap     int
	onEvict policy.Evicted[K, V]
}

var _ policy.Store[string, int] = (*Store[string, int])(nil)

// New returns an empty store holding at most capacity entries.
// onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict policy.Evicted[K, V]) *Store[K, V] {
	if capacity < 1 {
		panic("lru: capacity must be > 0")
	}
	return &Store[K, V]{
		m:       make(map[K]*node[K, V], capacity),
		cap:     capacity,
		onEvict: onEvict,
	}
}

// Put updates k and promotes it to MRU, or inserts it at MRU after
// evicting the LRU entry when the store is full.
func (s *Store[K, V]) Put(k K, v V) bool {
	if n, ok := s.m[k]; ok {
		n.val = v
		s.moveToFront(n)
		return true
	}
	if len(s.m) >= s.cap {
		ek, ev, ok := s.Evict()
		if !ok {
			panic("invariant: lru store full but nothing to evict")
		}
		if s.onEvict != nil {
			s.onEvict(ek, ev)
		}
	}
	n := &node[K, V]{key: k, val: v}
	s.m[k] = n
	s.pushFront(n)
	return false
}

// Get returns the value for k and promotes it to MRU.
func (s *Store[K, V]) Get(k K) (V, bool) {
	n, ok := s.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	s.moveToFront(n)
	return n.val, true
}

// Peek returns the value for k without changing its position.
func (s *Store[K, V]) Peek(k K) (V, bool) {
	if n, ok := s.m[k]; ok {
		return n.val, true
	}
	var zero V
	return zero, false
}

// Evict removes the LRU entry.
func (s *Store[K, V]) Evict() (K, V, bool) {
	n := s.tail
	if n == nil {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	s.unlink(n)
	delete(s.m, n.key)
	return n.key, n.val, true
}

// Entries returns all pairs from LRU to MRU.
func (s *Store[K, V]) Entries() []policy.Entry[K, V] {
	out := make([]policy.Entry[K, V], 0, len(s.m))
	for n := s.tail; n != nil; n = n.prev {
		out = append(out, policy.Entry[K, V]{Key: n.key, Value: n.val})
	}
	return out
}

// Keys returns the resident keys from MRU to LRU.
func (s *Store[K, V]) Keys() []K {
	out := make([]K, 0, len(s.m))
	for n := s.head; n != nil; n = n.next {
		out = append(out, n.key)
	}
	return out
}

// Clear drops every entry without calling onEvict.
func (s *Store[K, V]) Clear() {
	// Break links so dropped nodes don't keep each other reachable.
	for n := s.head; n != nil; {
		next := n.next
		n.prev, n.next = nil, nil
		n = next
	}
	s.head, s.tail = nil, nil
	clear(s.m)
}

// Len returns the number of resident entries.
func (s *Store[K, V]) Len() int { return len(s.m) }

// Cap returns the capacity.
func (s *Store[K, V]) Cap() int { return s.cap }

// pushFront inserts n at MRU.
func (s *Store[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

// moveToFront promotes n to MRU.
func (s *Store[K, V]) moveToFront(n *node[K, V]) {
	if n == s.head {
		return
	}
	s.unlink(n)
	s.pushFront(n)
}

// unlink detaches n from the list; map bookkeeping is left to the caller.
func (s *Store[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
