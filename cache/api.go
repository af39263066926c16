package cache

// Cache is the common surface of Adaptive, Synced and Sharded.
//
// Get is a mutating operation: it refreshes recency or frequency state and
// feeds the adaptation controller. Only Synced and Sharded are safe for
// concurrent use.
type Cache[K comparable, V any] interface {
	// Get returns the value for k and a presence flag.
	Get(k K) (V, bool)

	// Put inserts or updates k→v, evicting per the active strategy if full.
	Put(k K, v V)

	// Peek returns the value for k without touching eviction or
	// adaptation state.
	Peek(k K) (V, bool)

	// Strategy returns the active eviction discipline. No side effects.
	Strategy() Strategy

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the configured capacity.
	Cap() int

	// Stats returns a snapshot of counters.
	Stats() Stats
}

// Stats is a point-in-time view of a cache.
type Stats struct {
	Strategy Strategy
	Len      int
	Capacity int

	// Tally of the current decision window.
	WindowHits   int
	WindowMisses int

	// Lifetime counters.
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Switches  uint64
	Migrated  uint64 // entries moved across all migrations
}

// HitRate returns lifetime hits/(hits+misses), or 0 before any access.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s Stats) add(o Stats) Stats {
	s.Len += o.Len
	s.Capacity += o.Capacity
	s.WindowHits += o.WindowHits
	s.WindowMisses += o.WindowMisses
	s.Hits += o.Hits
	s.Misses += o.Misses
	s.Evictions += o.Evictions
	s.Switches += o.Switches
	s.Migrated += o.Migrated
	return s
}

var (
	_ Cache[string, int] = (*Adaptive[string, int])(nil)
	_ Cache[string, int] = (*Synced[string, int])(nil)
	_ Cache[string, int] = (*Sharded[string, int])(nil)
)
