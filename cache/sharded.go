package cache

import (
	"context"

	"github.com/IvanBrykalov/adaptcache/internal/util"
)

// Sharded partitions keys over a power-of-two number of Synced shards to
// reduce lock contention. Each shard owns an equal slice of Capacity and
// runs its own adaptation controller, so shards may serve different
// strategies at the same time. All methods are safe for concurrent use.
type Sharded[K comparable, V any] struct {
	shards []*Synced[K, V]
	hash   func(K) uint64
	cap    int
}

// NewSharded constructs a sharded cache. See Options.Shards for sizing.
// Keys must be supported by util.KeyHash (strings, byte slices, integers
// or fmt.Stringer).
func NewSharded[K comparable, V any](opt Options[K, V]) (*Sharded[K, V], error) {
	if opt.Capacity < 1 {
		return nil, capacityError(opt.Capacity)
	}
	n := util.ShardCount(opt.Shards, opt.Capacity)
	invariant(util.IsPowerOfTwo(uint64(n)), "shard count %d is not a power of two", n)
	per := (opt.Capacity + n - 1) / n // ceil

	s := &Sharded[K, V]{
		shards: make([]*Synced[K, V], n),
		hash:   util.KeyHash[K],
		cap:    per * n,
	}
	for i := range s.shards {
		o := opt
		o.Capacity = per
		if opt.Logger != nil {
			o.Logger = opt.Logger.With("shard", i)
		}
		sh, err := NewSynced[K, V](o)
		if err != nil {
			return nil, err
		}
		s.shards[i] = sh
	}
	return s, nil
}

// Get returns the value for k from its shard.
func (s *Sharded[K, V]) Get(k K) (V, bool) { return s.shard(k).Get(k) }

// Put inserts or overwrites k→v in its shard.
func (s *Sharded[K, V]) Put(k K, v V) { s.shard(k).Put(k, v) }

// Peek returns the value for k without bookkeeping.
func (s *Sharded[K, V]) Peek(k K) (V, bool) { return s.shard(k).Peek(k) }

// GetOrLoad loads k through its shard; see Synced.GetOrLoad.
func (s *Sharded[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	return s.shard(k).GetOrLoad(ctx, k)
}

// Strategy returns the strategy served by the majority of shards
// (LRU on a tie).
func (s *Sharded[K, V]) Strategy() Strategy {
	lfu := 0
	for _, st := range s.Strategies() {
		if st == LFU {
			lfu++
		}
	}
	if 2*lfu > len(s.shards) {
		return LFU
	}
	return LRU
}

// Strategies returns the active strategy of every shard.
func (s *Sharded[K, V]) Strategies() []Strategy {
	out := make([]Strategy, len(s.shards))
	for i, sh := range s.shards {
		out[i] = sh.Strategy()
	}
	return out
}

// Len returns the total number of resident entries across all shards.
func (s *Sharded[K, V]) Len() int {
	total := 0
	for _, sh := range s.shards {
		total += sh.Len()
	}
	return total
}

// Cap returns the summed shard capacity (Capacity rounded up to a
// multiple of the shard count).
func (s *Sharded[K, V]) Cap() int { return s.cap }

// Shards returns the number of shards.
func (s *Sharded[K, V]) Shards() int { return len(s.shards) }

// Stats sums shard counters; Strategy is the majority strategy.
// Shards are sampled one at a time, so the sum is not a global snapshot.
func (s *Sharded[K, V]) Stats() Stats {
	var total Stats
	lfu := 0
	for _, sh := range s.shards {
		st := sh.Stats()
		if st.Strategy == LFU {
			lfu++
		}
		total = total.add(st)
	}
	if 2*lfu > len(s.shards) {
		total.Strategy = LFU
	}
	return total
}

func (s *Sharded[K, V]) shard(k K) *Synced[K, V] {
	return s.shards[util.ShardIndex(s.hash(k), len(s.shards))]
}
