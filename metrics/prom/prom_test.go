package prom

import (
	"strconv"
	"testing"

	"github.com/IvanBrykalov/adaptcache/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "test", "cache", prometheus.Labels{"name": "unit"})

	a.Hit()
	a.Hit()
	a.Miss()
	a.Insert()
	a.Insert()
	a.Insert()
	a.Evict(cache.EvictRecency)
	a.Switch(cache.LRU, cache.LFU)
	a.Evict(cache.EvictFrequency)
	a.Evict(cache.EvictFrequency)

	require.Equal(t, 2.0, testutil.ToFloat64(a.hits))
	require.Equal(t, 1.0, testutil.ToFloat64(a.misses))
	require.Equal(t, 0.0, testutil.ToFloat64(a.sizeEnt))
	require.Equal(t, 1.0, testutil.ToFloat64(a.evicts.WithLabelValues("lru")))
	require.Equal(t, 2.0, testutil.ToFloat64(a.evicts.WithLabelValues("lfu")))
	require.Equal(t, 1.0, testutil.ToFloat64(a.switches.WithLabelValues("lru", "lfu")))
	require.Equal(t, 1.0, testutil.ToFloat64(a.lfu))

	a.Switch(cache.LFU, cache.LRU)
	require.Equal(t, 0.0, testutil.ToFloat64(a.lfu))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	// hits, misses, size, lfu_caches, 2 eviction series, 2 switch series
	require.Equal(t, 8, n)
}

func TestAdapter_TracksCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "", "adaptive", nil)

	c, err := cache.NewSharded[string, int](cache.Options[string, int]{
		Capacity: 32,
		Shards:   2,
		Metrics:  a,
	})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		c.Put("k"+strconv.Itoa(i), i)
	}
	st := c.Stats()
	require.Equal(t, float64(st.Len), testutil.ToFloat64(a.sizeEnt))
	require.Equal(t, float64(st.Hits), testutil.ToFloat64(a.hits))
	require.Equal(t, float64(st.Misses), testutil.ToFloat64(a.misses))
	require.Equal(t, float64(st.Evictions),
		testutil.ToFloat64(a.evicts.WithLabelValues("lru"))+testutil.ToFloat64(a.evicts.WithLabelValues("lfu")))

	lfu := 0
	for _, s := range c.Strategies() {
		if s == cache.LFU {
			lfu++
		}
	}
	require.Equal(t, float64(lfu), testutil.ToFloat64(a.lfu))
}
