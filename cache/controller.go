package cache

// controller is the adaptation state machine. It tallies the outcome of
// every Get/Put and, once per DecisionWindow, picks the strategy for the
// next window. Windows never overlap: the tally is reset at every decision,
// whether or not the strategy changes.
type controller struct {
	state  Strategy
	hits   int
	misses int
}

// observe records one outcome. When the window closes it returns the
// target strategy and the window hit rate with decided=true.
func (c *controller) observe(hit bool) (target Strategy, rate float64, decided bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	total := c.hits + c.misses
	if total < DecisionWindow {
		return c.state, 0, false
	}
	rate = float64(c.hits) / float64(total)
	c.hits, c.misses = 0, 0
	return targetFor(rate), rate, true
}

func targetFor(hitRate float64) Strategy {
	if hitRate > LFUThreshold {
		return LFU
	}
	return LRU
}
