package cache

import (
	"context"
	"log/slog"
	"strconv"
)

// Adaptation policy. These are fixed; there is no hysteresis band, so a hit
// rate hovering around LFUThreshold can flip the strategy every window.
const (
	// DecisionWindow is the number of Get/Put calls per evaluation.
	DecisionWindow = 100
	// LFUThreshold is the window hit rate above which LFU is selected.
	LFUThreshold = 0.6
)

// EvictReason tells which discipline removed an entry.
type EvictReason int

const (
	// EvictRecency: dropped by the LRU store to make room.
	EvictRecency EvictReason = iota
	// EvictFrequency: dropped by the LFU store to make room.
	EvictFrequency
)

func (r EvictReason) String() string {
	switch r {
	case EvictRecency:
		return "lru"
	case EvictFrequency:
		return "lfu"
	default:
		return "reason(" + strconv.Itoa(int(r)) + ")"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
//
// Hit/Miss follow the adaptation tally: both Get and Put report whether
// the key was already resident.
type Metrics interface {
	Hit()
	Miss()
	// Insert is reported when a new key becomes resident.
	Insert()
	Evict(reason EvictReason)
	// Switch is reported after a migration completed.
	Switch(from, to Strategy)
}

// Options configures a cache. Zero values are safe except Capacity;
// defaults applied by the constructors:
//   - nil Metrics => NoopMetrics
//   - nil Logger  => discard
//   - Shards <= 0 => auto (NewSharded only)
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. Must be >= 1.
	// NewSharded rounds it up to a multiple of the shard count; Cap reports
	// the effective limit.
	Capacity int

	// Shards is the partition count for NewSharded, rounded up to a power
	// of two and clamped so every shard holds at least one entry.
	Shards int

	// Clone deep-copies values for reference-typed V (slices, maps, pointers).
	// When set, Put stores Clone(v) and Get returns Clone(stored), so callers
	// never alias cached memory. Nil means plain assignment.
	Clone func(v V) V

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called synchronously for every capacity eviction.
	// For Synced/Sharded it runs under the lock; keep it lightweight.
	OnEvict func(k K, v V, reason EvictReason)

	// OnSwitch is called after the strategy changed and data was migrated.
	OnSwitch func(from, to Strategy)

	Metrics Metrics
	Logger  *slog.Logger
}

func (o Options[K, V]) withDefaults() Options[K, V] {
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
