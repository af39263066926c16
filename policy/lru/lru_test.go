package lru

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"

	golru "github.com/hashicorp/golang-lru/v2"
)

type evictLog[K comparable, V any] struct {
	keys []K
	vals []V
}

func (l *evictLog[K, V]) hook(k K, v V) {
	l.keys = append(l.keys, k)
	l.vals = append(l.vals, v)
}

// Put of a new key on a full store evicts the tail and reports it.
func TestLRU_PutEvictsLeastRecent(t *testing.T) {
	t.Parallel()

	var ev evictLog[string, int]
	s := New[string, int](2, ev.hook)

	if s.Put("a", 1) {
		t.Fatal("a must be reported as new")
	}
	s.Put("b", 2)
	if _, ok := s.Get("a"); !ok { // a -> MRU
		t.Fatal("expect hit for a")
	}
	s.Put("c", 3)

	if !slices.Equal(ev.keys, []string{"b"}) || ev.vals[0] != 2 {
		t.Fatalf("expected b=2 evicted, got %v %v", ev.keys, ev.vals)
	}
	if got := s.Keys(); !slices.Equal(got, []string{"c", "a"}) {
		t.Fatalf("MRU->LRU order: want [c a], got %v", got)
	}
	if s.Len() != 2 {
		t.Fatalf("Len want 2, got %d", s.Len())
	}
}

// Updating an existing key replaces the value and promotes it, without eviction.
func TestLRU_PutExistingPromotes(t *testing.T) {
	t.Parallel()

	var ev evictLog[string, int]
	s := New[string, int](2, ev.hook)
	s.Put("a", 1)
	s.Put("b", 2)

	if !s.Put("a", 10) {
		t.Fatal("a must be reported as found")
	}
	if len(ev.keys) != 0 {
		t.Fatalf("update must not evict, got %v", ev.keys)
	}
	if v, _ := s.Peek("a"); v != 10 {
		t.Fatalf("a want 10, got %d", v)
	}
	s.Put("c", 3)
	if _, ok := s.Peek("b"); ok {
		t.Fatal("b must be evicted after a was refreshed")
	}
}

// Peek must not change order.
func TestLRU_PeekDoesNotPromote(t *testing.T) {
	t.Parallel()

	s := New[string, int](2, nil)
	s.Put("a", 1)
	s.Put("b", 2)
	if _, ok := s.Peek("a"); !ok {
		t.Fatal("peek miss")
	}
	s.Put("c", 3)
	if _, ok := s.Peek("a"); ok {
		t.Fatal("a must be evicted: Peek must not refresh recency")
	}
}

func TestLRU_EvictEmpty(t *testing.T) {
	t.Parallel()

	s := New[int, int](1, nil)
	if _, _, ok := s.Evict(); ok {
		t.Fatal("Evict on empty store must fail")
	}
	s.Put(1, 1)
	if k, v, ok := s.Evict(); !ok || k != 1 || v != 1 {
		t.Fatalf("Evict want (1,1,true), got (%d,%d,%v)", k, v, ok)
	}
	if s.Len() != 0 {
		t.Fatal("store must be empty")
	}
}

// Entries yields LRU first; Clear resets everything and skips the hook.
func TestLRU_EntriesAndClear(t *testing.T) {
	t.Parallel()

	var ev evictLog[string, int]
	s := New[string, int](3, ev.hook)
	s.Put("a", 1)
	s.Put("b", 2)
	s.Put("c", 3)
	s.Get("a")

	var keys []string
	for _, e := range s.Entries() {
		keys = append(keys, e.Key)
	}
	if !slices.Equal(keys, []string{"b", "c", "a"}) {
		t.Fatalf("Entries want [b c a], got %v", keys)
	}

	s.Clear()
	if s.Len() != 0 || len(s.Entries()) != 0 || len(s.Keys()) != 0 {
		t.Fatal("Clear must drop all entries")
	}
	if len(ev.keys) != 0 {
		t.Fatal("Clear must not report evictions")
	}
	s.Put("x", 9)
	if v, ok := s.Get("x"); !ok || v != 9 {
		t.Fatal("store must be usable after Clear")
	}
}

// Random workload cross-checked against hashicorp/golang-lru.
func TestLRU_MatchesReference(t *testing.T) {
	t.Parallel()

	const capacity = 16
	ref, err := golru.New[string, int](capacity)
	if err != nil {
		t.Fatal(err)
	}
	s := New[string, int](capacity, nil)
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 20_000; i++ {
		k := "k" + strconv.Itoa(r.Intn(64))
		if r.Intn(2) == 0 {
			ref.Add(k, i)
			s.Put(k, i)
			continue
		}
		want, wok := ref.Get(k)
		got, gok := s.Get(k)
		if wok != gok || want != got {
			t.Fatalf("step %d key %s: want (%d,%v), got (%d,%v)", i, k, want, wok, got, gok)
		}
	}
	if ref.Len() != s.Len() {
		t.Fatalf("Len mismatch: want %d, got %d", ref.Len(), s.Len())
	}
	// golang-lru lists keys oldest first.
	want := ref.Keys()
	slices.Reverse(want)
	if got := s.Keys(); !slices.Equal(got, want) {
		t.Fatalf("order mismatch:\nwant %v\ngot  %v", want, got)
	}
}

func BenchmarkLRU_PutGet(b *testing.B) {
	s := New[int, int](1024, nil)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		k := i & 2047
		if _, ok := s.Get(k); !ok {
			s.Put(k, i)
		}
	}
}
