package cache

// migrate moves every resident entry from the from-store into the empty
// to-store and returns how many entries moved.
//
// The source is snapshotted and cleared first (for LFU this also drops the
// bucket ordering), then each pair goes through the target's regular Put.
// Iteration order becomes the target's order:
//   - LRU→LFU: least recent first, so it ends up oldest in bucket 1.
//   - LFU→LRU: ascending frequency, so the hottest keys end up most recent.
//
// Both stores share one capacity, so the target never has to evict; the
// eviction hook panics if it does.
func (c *Adaptive[K, V]) migrate(from, to Strategy) int {
	src, dst := c.stores[from], c.stores[to]
	invariant(dst.Len() == 0, "migration target %s holds %d entries", to, dst.Len())

	pairs := src.Entries()
	src.Clear()
	invariant(len(pairs) <= dst.Cap(), "migrating %d entries into capacity %d", len(pairs), dst.Cap())

	c.migrating = true
	for _, e := range pairs {
		dst.Put(e.Key, e.Value)
	}
	c.migrating = false
	return len(pairs)
}
