package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"

	golru "github.com/hashicorp/golang-lru/v2"
)

// benchmarkAdaptive runs a single-threaded Zipf read/write mix.
func benchmarkAdaptive(b *testing.B, readsPct int) {
	c := MustNew[int, int](Options[int, int]{Capacity: 10_000})
	r := rand.New(rand.NewSource(1))
	z := rand.NewZipf(r, 1.1, 1, 100_000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := int(z.Uint64())
		if r.Intn(100) < readsPct {
			c.Get(k)
		} else {
			c.Put(k, i)
		}
	}
	b.StopTimer()
	st := c.Stats()
	b.ReportMetric(st.HitRate()*100, "hit%")
	b.ReportMetric(float64(st.Switches), "switches")
}

func BenchmarkAdaptive_90r10w(b *testing.B) { benchmarkAdaptive(b, 90) }
func BenchmarkAdaptive_50r50w(b *testing.B) { benchmarkAdaptive(b, 50) }

// Same workload on hashicorp/golang-lru as a baseline.
func BenchmarkBaselineLRU_90r10w(b *testing.B) {
	c, _ := golru.New[int, int](10_000)
	r := rand.New(rand.NewSource(1))
	z := rand.NewZipf(r, 1.1, 1, 100_000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := int(z.Uint64())
		if r.Intn(100) < 90 {
			c.Get(k)
		} else {
			c.Add(k, i)
		}
	}
}

// Every window forces a full migration of a full cache.
func BenchmarkAdaptive_Flapping(b *testing.B) {
	c := MustNew[int, int](Options[int, int]{Capacity: 1_000})
	for i := 0; i < 1_000; i++ {
		c.active().Put(i, i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// 70 hits / 30 misses, then 30 hits / 70 misses.
		phase := (i / DecisionWindow) % 2
		pos := i % DecisionWindow
		if (phase == 0 && pos < 70) || (phase == 1 && pos < 30) {
			c.Get(pos)
		} else {
			c.Get(-1 - pos)
		}
	}
}

// benchmarkParallel exercises a shared cache from GOMAXPROCS goroutines.
func benchmarkParallel(b *testing.B, c Cache[string, string], readsPct int) {
	for i := 0; i < 5_000; i++ {
		c.Put("k:"+strconv.Itoa(i), "v")
	}
	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 14) - 1
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, "v")
			}
			i++
		}
	})
}

func BenchmarkSynced_90r10w(b *testing.B) {
	c, _ := NewSynced[string, string](Options[string, string]{Capacity: 10_000})
	benchmarkParallel(b, c, 90)
}

func BenchmarkSharded_90r10w(b *testing.B) {
	c, _ := NewSharded[string, string](Options[string, string]{Capacity: 10_000})
	benchmarkParallel(b, c, 90)
}
