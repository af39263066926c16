package main

import (
	"context"
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	golru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// target is what a phase drives: the adaptive cache or the baseline.
type target interface {
	Get(k string) (string, bool)
	Put(k, v string)
	Len() int
}

// baseline adapts hashicorp/golang-lru to target.
type baseline struct{ c *golru.Cache[string, string] }

func newBaseline(capacity int) (baseline, error) {
	c, err := golru.New[string, string](capacity)
	return baseline{c: c}, err
}

func (b baseline) Get(k string) (string, bool) { return b.c.Get(k) }
func (b baseline) Put(k, v string)             { b.c.Add(k, v) }
func (b baseline) Len() int                    { return b.c.Len() }

// result aggregates one phase across workers.
type result struct {
	Ops, Reads, Writes, Hits uint64
	Elapsed                  time.Duration
}

// HitRate is the fraction of reads that hit.
func (r result) HitRate() float64 {
	if r.Reads == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Reads)
}

// OpsPerSec is the phase throughput.
func (r result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// runPhase drives t with cfg.Workers goroutines until the phase duration
// elapses, its ops cap is reached or ctx is cancelled. Reads that miss are
// filled with a Put, the usual cache-aside pattern.
func runPhase(ctx context.Context, t target, p Phase, cfg *Config, scan *atomic.Uint64) (result, error) {
	if p.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Duration)
		defer cancel()
	}
	perWorker := 0
	if p.Ops > 0 {
		perWorker = (p.Ops + cfg.Workers - 1) / cfg.Workers
	}

	var reads, writes, hits, ops atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		g.Go(func() error {
			// rand.Rand is not goroutine-safe: one per worker.
			r := rand.New(rand.NewSource(cfg.Seed + int64(w)*9973))
			next := keyGen(p, cfg, r, scan)

			var nReads, nWrites, nHits, n uint64
			defer func() {
				reads.Add(nReads)
				writes.Add(nWrites)
				hits.Add(nHits)
				ops.Add(n)
			}()
			for perWorker == 0 || n < uint64(perWorker) {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				n++
				k := next()
				if r.Intn(100) < p.Reads {
					nReads++
					if _, ok := t.Get(k); ok {
						nHits++
						continue
					}
				} else {
					nWrites++
				}
				t.Put(k, "v"+strconv.FormatUint(n, 10))
			}
			return nil
		})
	}
	err := g.Wait()
	return result{
		Ops:     ops.Load(),
		Reads:   reads.Load(),
		Writes:  writes.Load(),
		Hits:    hits.Load(),
		Elapsed: time.Since(start),
	}, err
}

// keyGen returns the key source for one worker. scan is shared so scan
// keys stay unique across workers and phases.
func keyGen(p Phase, cfg *Config, r *rand.Rand, scan *atomic.Uint64) func() string {
	switch p.Kind {
	case KindScan:
		return func() string { return "scan:" + strconv.FormatUint(scan.Add(1), 10) }
	case KindHotspot:
		n := max(p.HotKeys, 1)
		return func() string { return "hot:" + strconv.Itoa(r.Intn(n)) }
	default:
		z := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, uint64(cfg.Keys-1))
		return func() string { return "k:" + strconv.FormatUint(z.Uint64(), 10) }
	}
}

// preload fills t with the first n zipf keys.
func preload(t target, n int) {
	for i := 0; i < n; i++ {
		t.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}
}
