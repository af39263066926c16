// Package lfu implements the frequency store: a key index plus an ordered
// list of frequency buckets.
//
// Buckets are kept in ascending frequency order and each holds its keys in
// insertion order (oldest first). A promoted key leaves bucket f and is
// appended to bucket f+1; the f+1 bucket is created right after f when
// missing, so ordering is maintained in O(1) without scanning. A bucket that
// becomes empty is unlinked immediately. Eviction takes the oldest key of
// the first (lowest-frequency) bucket.
package lfu

import (
	"container/list"

	"github.com/IvanBrykalov/adaptcache/policy"
)

type entry[K comparable, V any] struct {
	key  K
	val  V
	freq int

	b          *bucket[K, V]
	prev, next *entry[K, V] // within b: head is oldest
}

type bucket[K comparable, V any] struct {
	freq       int
	head, tail *entry[K, V]
	n          int
	el         *list.Element // position in Store.buckets; el.Value is *bucket
}

// Store is a Least-Frequently-Used store. Not safe for concurrent use.
type Store[K comparable, V any] struct {
	m       map[K]*entry[K, V]
	buckets *list.List // ascending by freq
	cap     int
	onEvict policy.Evicted[K, V]
}

var _ policy.Store[string, int] = (*Store[string, int])(nil)

// New returns an empty store holding at most capacity entries.
// onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict policy.Evicted[K, V]) *Store[K, V] {
	if capacity < 1 {
		panic("lfu: capacity must be > 0")
	}
	return &Store[K, V]{
		m:       make(map[K]*entry[K, V], capacity),
		buckets: list.New(),
		cap:     capacity,
		onEvict: onEvict,
	}
}

// Put inserts a new key at frequency 1, evicting the oldest key of the
// lowest-frequency bucket first when full. Writing an existing key replaces
// its value and counts as an access.
func (s *Store[K, V]) Put(k K, v V) bool {
	if e, ok := s.m[k]; ok {
		e.val = v
		s.promote(e)
		return true
	}
	if len(s.m) >= s.cap {
		ek, ev, ok := s.Evict()
		if !ok {
			panic("invariant: lfu store full but nothing to evict")
		}
		if s.onEvict != nil {
			s.onEvict(ek, ev)
		}
	}

	e := &entry[K, V]{key: k, val: v, freq: 1}
	s.m[k] = e

	var b *bucket[K, V]
	if front := s.buckets.Front(); front != nil && front.Value.(*bucket[K, V]).freq == 1 {
		b = front.Value.(*bucket[K, V])
	} else {
		b = &bucket[K, V]{freq: 1}
		b.el = s.buckets.PushFront(b)
	}
	b.append(e)
	return false
}

// Get returns the value for k and increments its frequency.
// A miss has no side effects.
func (s *Store[K, V]) Get(k K) (V, bool) {
	e, ok := s.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	s.promote(e)
	return e.val, true
}

// Peek returns the value for k without counting an access.
func (s *Store[K, V]) Peek(k K) (V, bool) {
	if e, ok := s.m[k]; ok {
		return e.val, true
	}
	var zero V
	return zero, false
}

// Frequency reports the access count of k.
func (s *Store[K, V]) Frequency(k K) (int, bool) {
	if e, ok := s.m[k]; ok {
		return e.freq, true
	}
	return 0, false
}

// Evict removes the oldest key of the lowest-frequency bucket.
func (s *Store[K, V]) Evict() (K, V, bool) {
	front := s.buckets.Front()
	if front == nil {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	b := front.Value.(*bucket[K, V])
	e := b.head
	s.detach(e)
	delete(s.m, e.key)
	return e.key, e.val, true
}

// Entries returns all pairs in ascending frequency order, oldest first
// within a frequency.
func (s *Store[K, V]) Entries() []policy.Entry[K, V] {
	out := make([]policy.Entry[K, V], 0, len(s.m))
	for el := s.buckets.Front(); el != nil; el = el.Next() {
		for e := el.Value.(*bucket[K, V]).head; e != nil; e = e.next {
			out = append(out, policy.Entry[K, V]{Key: e.key, Value: e.val})
		}
	}
	return out
}

// Frequencies returns the frequency of every non-empty bucket, ascending.
func (s *Store[K, V]) Frequencies() []int {
	out := make([]int, 0, s.buckets.Len())
	for el := s.buckets.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*bucket[K, V]).freq)
	}
	return out
}

// Clear drops every entry together with the bucket ordering.
func (s *Store[K, V]) Clear() {
	clear(s.m)
	s.buckets.Init()
}

// Len returns the number of resident entries.
func (s *Store[K, V]) Len() int { return len(s.m) }

// Cap returns the capacity.
func (s *Store[K, V]) Cap() int { return s.cap }

// promote moves e from bucket f to the tail of bucket f+1.
func (s *Store[K, V]) promote(e *entry[K, V]) {
	cur := e.b
	var dst *bucket[K, V]
	if next := cur.el.Next(); next != nil && next.Value.(*bucket[K, V]).freq == cur.freq+1 {
		dst = next.Value.(*bucket[K, V])
	} else {
		dst = &bucket[K, V]{freq: cur.freq + 1}
		dst.el = s.buckets.InsertAfter(dst, cur.el)
	}
	s.detach(e)
	e.freq = dst.freq
	dst.append(e)
}

// detach removes e from its bucket and unlinks the bucket once empty.
func (s *Store[K, V]) detach(e *entry[K, V]) {
	b := e.b
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		b.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		b.tail = e.prev
	}
	e.prev, e.next, e.b = nil, nil, nil
	b.n--
	if b.n == 0 {
		s.buckets.Remove(b.el)
		b.el = nil
	}
}

// append adds e at the tail (newest end) of b.
func (b *bucket[K, V]) append(e *entry[K, V]) {
	e.b = b
	e.prev = b.tail
	e.next = nil
	if b.tail != nil {
		b.tail.next = e
	} else {
		b.head = e
	}
	b.tail = e
	b.n++
}
