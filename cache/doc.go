// Package cache provides a generic in-memory key/value cache that picks its
// own eviction discipline, switching between LRU and LFU at runtime based on
// the hit rate it observes.
//
// Design
//
//   - Stores: two bounded stores implement policy.Store. policy/lru keeps a
//     map plus an intrusive MRU↔LRU list. policy/lfu keeps a map plus an
//     ascending list of frequency buckets, FIFO inside each bucket. Only the
//     active store holds entries; the other is always empty.
//
//   - Adaptation: every Get and Put counts as a hit (key was resident) or a
//     miss. After DecisionWindow (100) calls the window hit rate is computed:
//     above LFUThreshold (0.6) selects LFU, otherwise LRU. The tally resets
//     at every decision. There is no damping, so a workload sitting near the
//     threshold can flip strategies every window.
//
//   - Migration: on a switch, all entries are read out of the old store, the
//     old store is cleared, and each entry is re-inserted through the new
//     store's normal Put. Data and the capacity bound are preserved.
//
//   - Concurrency: Adaptive is single-threaded by contract (Get mutates).
//     Synced wraps it in a mutex; Sharded spreads keys over Synced shards,
//     each adapting on its own.
//
//   - Observability: Options.Metrics receives Hit/Miss/Insert/Evict/Switch
//     signals (see metrics/prom for a Prometheus adapter). Options.Logger
//     (log/slog) gets an Info record for each strategy switch.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Clone:    bytes.Clone,
//	})
//	if err != nil {
//	    return err // wraps cache.ErrInvalidCapacity
//	}
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//	fmt.Println(c.Strategy()) // lru
//
// Shared between goroutines
//
//	c, _ := cache.NewSynced[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(ctx, "key")
package cache
