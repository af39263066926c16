package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/adaptcache/internal/util"
)

// Synced serializes access to one Adaptive cache with a mutex held for the
// full duration of every call, including any migration it triggers.
// All methods are safe for concurrent use.
type Synced[K comparable, V any] struct {
	mu sync.Mutex
	c  *Adaptive[K, V]

	loader func(ctx context.Context, k K) (V, error)
	sf     singleflight.Group

	_     util.CacheLinePad
	loads util.PaddedAtomicUint64
}

// NewSynced constructs a mutex-guarded Adaptive cache.
func NewSynced[K comparable, V any](opt Options[K, V]) (*Synced[K, V], error) {
	c, err := New[K, V](opt)
	if err != nil {
		return nil, err
	}
	return &Synced[K, V]{c: c, loader: opt.Loader}, nil
}

// Get returns the value for k; see Adaptive.Get.
func (s *Synced[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Get(k)
}

// Put inserts or overwrites k→v; see Adaptive.Put.
func (s *Synced[K, V]) Put(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Put(k, v)
}

// Peek returns the value for k without bookkeeping.
func (s *Synced[K, V]) Peek(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Peek(k)
}

// Strategy returns the active eviction discipline.
func (s *Synced[K, V]) Strategy() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Strategy()
}

// Len returns the number of resident entries.
func (s *Synced[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Len()
}

// Cap returns the configured capacity.
func (s *Synced[K, V]) Cap() int { return s.c.Cap() }

// Stats returns a snapshot of counters.
func (s *Synced[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Stats()
}

// Loads returns how many times Options.Loader actually ran.
func (s *Synced[K, V]) Loads() uint64 { return s.loads.Load() }

// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
// Concurrent loads of the same key are coalesced. A caller whose ctx is
// cancelled returns ctx.Err() while the shared load keeps running.
func (s *Synced[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if v, ok := s.Get(k); ok {
		return v, nil
	}
	if s.loader == nil {
		return zero, ErrNoLoader
	}

	ch := s.sf.DoChan(flightKey(k), func() (any, error) {
		// Another flight may have filled it in the meantime.
		if v, ok := s.Peek(k); ok {
			return v, nil
		}
		s.loads.Add(1)
		v, err := s.loader(ctx, k)
		if err != nil {
			return nil, err
		}
		s.Put(k, v)
		return v, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		v, _ := r.Val.(V)
		if r.Shared {
			// Followers must not alias the leader's value.
			v = s.c.clone(v)
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// flightKey encodes k for the singleflight group. Go-syntax formatting
// quotes strings and carries the dynamic type, so keys that compare
// unequal never share a flight.
func flightKey[K comparable](k K) string {
	return fmt.Sprintf("%T\x00%#v", k, k)
}
