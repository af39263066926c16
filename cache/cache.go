package cache

import (
	"context"
	"log/slog"

	"github.com/IvanBrykalov/adaptcache/policy"
	"github.com/IvanBrykalov/adaptcache/policy/lfu"
	"github.com/IvanBrykalov/adaptcache/policy/lru"
)

// Adaptive is a bounded key/value cache that switches between LRU and LFU
// eviction based on its own hit rate. It starts in LRU.
//
// Adaptive is NOT safe for concurrent use: Get reorders internal state and
// may trigger a migration. Wrap it in Synced (or use Sharded) to share it.
type Adaptive[K comparable, V any] struct {
	// stores is indexed by Strategy. Only stores[ctl.state] holds data.
	stores [2]policy.Store[K, V]
	ctl    controller
	opt    Options[K, V]
	log    *slog.Logger

	migrating bool

	hits, misses        uint64
	evictions, switches uint64
	migrated            uint64
}

// New constructs an Adaptive cache.
// It returns an error wrapping ErrInvalidCapacity if opt.Capacity < 1.
func New[K comparable, V any](opt Options[K, V]) (*Adaptive[K, V], error) {
	if opt.Capacity < 1 {
		return nil, capacityError(opt.Capacity)
	}
	opt = opt.withDefaults()

	c := &Adaptive[K, V]{
		opt: opt,
		log: opt.Logger,
		ctl: controller{state: LRU},
	}
	c.stores[LRU] = lru.New[K, V](opt.Capacity, c.evicted(EvictRecency))
	c.stores[LFU] = lfu.New[K, V](opt.Capacity, c.evicted(EvictFrequency))
	return c, nil
}

// MustNew is like New but panics on invalid options.
func MustNew[K comparable, V any](opt Options[K, V]) *Adaptive[K, V] {
	c, err := New[K, V](opt)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the value for k and refreshes its recency/frequency.
// Absence is reported through the bool, never as an error.
func (c *Adaptive[K, V]) Get(k K) (V, bool) {
	v, ok := c.active().Get(k)
	if ok {
		v = c.clone(v)
	}
	c.record(ok)
	return v, ok
}

// Put inserts or overwrites k→v.
func (c *Adaptive[K, V]) Put(k K, v V) {
	found := c.active().Put(k, c.clone(v))
	if !found {
		c.opt.Metrics.Insert()
	}
	c.record(found)
}

// Peek returns the value for k with no bookkeeping at all: it is not
// counted by the controller and does not refresh the entry.
func (c *Adaptive[K, V]) Peek(k K) (V, bool) {
	v, ok := c.active().Peek(k)
	if ok {
		v = c.clone(v)
	}
	return v, ok
}

// Strategy returns the active eviction discipline.
func (c *Adaptive[K, V]) Strategy() Strategy { return c.ctl.state }

// Len returns the number of resident entries.
func (c *Adaptive[K, V]) Len() int { return c.active().Len() }

// Cap returns the configured capacity.
func (c *Adaptive[K, V]) Cap() int { return c.opt.Capacity }

// Stats returns a snapshot of counters.
func (c *Adaptive[K, V]) Stats() Stats {
	return Stats{
		Strategy:     c.ctl.state,
		Len:          c.Len(),
		Capacity:     c.opt.Capacity,
		WindowHits:   c.ctl.hits,
		WindowMisses: c.ctl.misses,
		Hits:         c.hits,
		Misses:       c.misses,
		Evictions:    c.evictions,
		Switches:     c.switches,
		Migrated:     c.migrated,
	}
}

// ---- internals ----

func (c *Adaptive[K, V]) active() policy.Store[K, V] { return c.stores[c.ctl.state] }

func (c *Adaptive[K, V]) clone(v V) V {
	if c.opt.Clone == nil {
		return v
	}
	return c.opt.Clone(v)
}

// record feeds one outcome to the controller and migrates if the window
// decision differs from the current strategy.
func (c *Adaptive[K, V]) record(hit bool) {
	if hit {
		c.hits++
		c.opt.Metrics.Hit()
	} else {
		c.misses++
		c.opt.Metrics.Miss()
	}

	target, rate, decided := c.ctl.observe(hit)
	if !decided || target == c.ctl.state {
		return
	}

	from := c.ctl.state
	moved := c.migrate(from, target)
	c.ctl.state = target
	c.switches++
	c.migrated += uint64(moved)

	c.log.Info("cache strategy switched",
		slog.String("from", from.String()),
		slog.String("to", target.String()),
		slog.Float64("hit_rate", rate),
		slog.Int("entries", moved),
	)
	c.opt.Metrics.Switch(from, target)
	if cb := c.opt.OnSwitch; cb != nil {
		cb(from, target)
	}
}

// evicted builds the store hook for capacity evictions.
func (c *Adaptive[K, V]) evicted(reason EvictReason) policy.Evicted[K, V] {
	return func(k K, v V) {
		invariant(!c.migrating, "eviction of %v during migration", k)
		c.evictions++
		c.opt.Metrics.Evict(reason)
		if c.log.Enabled(context.Background(), slog.LevelDebug) {
			c.log.Debug("cache eviction", slog.Any("key", k), slog.String("reason", reason.String()))
		}
		if cb := c.opt.OnEvict; cb != nil {
			cb(k, v, reason)
		}
	}
}
