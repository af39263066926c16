// Command bench runs phased synthetic workloads against the adaptive cache,
// reporting how it switches between LRU and LFU, and exposes optional
// pprof/Prometheus endpoints.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"

	"github.com/IvanBrykalov/adaptcache/cache"
	pmet "github.com/IvanBrykalov/adaptcache/metrics/prom"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(2)
	}
	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Error("bench failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, logger *slog.Logger, out io.Writer) error {
	// ---- pprof server (on DefaultServeMux) ----
	if cfg.PprofAddr != "" {
		go func() {
			logger.Info("pprof: serving", "addr", cfg.PprofAddr)
			logger.Warn("pprof: stopped", "error", http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}

	// ---- Build cache ----
	opt := cache.Options[string, string]{
		Capacity: cfg.Capacity,
		Shards:   cfg.Shards,
		Logger:   logger.With("component", "cache"),
	}
	if cfg.MetricsAddr != "" {
		opt.Metrics = pmet.New(nil, "adaptcache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("metrics: serving", "addr", cfg.MetricsAddr)
			logger.Warn("metrics: stopped", "error", http.ListenAndServe(cfg.MetricsAddr, nil))
		}()
	}
	c, err := newCache(opt)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "cap=%s shards=%d workers=%d keys=%s zipf_s=%.2f seed=%d\n",
		humanize.Comma(int64(cfg.Capacity)), cfg.Shards, cfg.Workers,
		humanize.Comma(int64(cfg.Keys)), cfg.ZipfS, cfg.Seed)

	preload(c, cfg.Preload)
	if err := runPhases(ctx, "adaptive", c, cfg, logger, out); err != nil {
		return err
	}
	st := c.Stats()
	fmt.Fprintf(out, "adaptive: strategy=%s len=%s switches=%d migrated=%s evictions=%s hit-rate=%.2f%%\n",
		st.Strategy, humanize.Comma(int64(st.Len)), st.Switches,
		humanize.Comma(int64(st.Migrated)), humanize.Comma(int64(st.Evictions)), st.HitRate()*100)

	if cfg.Baseline {
		b, err := newBaseline(cfg.Capacity)
		if err != nil {
			return err
		}
		preload(b, cfg.Preload)
		if err := runPhases(ctx, "golang-lru", b, cfg, logger, out); err != nil {
			return err
		}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	fmt.Fprintf(out, "HeapAlloc: %s\n", humanize.IBytes(ms.HeapAlloc))
	return nil
}

// benchCache is the adaptive side of a run.
type benchCache interface {
	target
	Strategy() cache.Strategy
	Stats() cache.Stats
}

// newCache builds a single locked cache for Shards == 1 and a sharded one
// otherwise.
func newCache(opt cache.Options[string, string]) (benchCache, error) {
	if opt.Shards == 1 {
		c, err := cache.NewSynced[string, string](opt)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := cache.NewSharded[string, string](opt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// runPhases runs every configured phase on t and prints one line per phase.
func runPhases(ctx context.Context, name string, t target, cfg *Config, logger *slog.Logger, out io.Writer) error {
	var scan atomic.Uint64
	for i, p := range cfg.Phases {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("phase start", "target", name, "phase", i, "kind", p.Kind)
		res, err := runPhase(ctx, t, p, cfg, &scan)
		if err != nil {
			return err
		}

		line := fmt.Sprintf("%-10s phase %d %-7s ops=%s (%s ops/s) reads=%s writes=%s hit-rate=%.2f%% len=%s",
			name, i, p.Kind,
			humanize.Comma(int64(res.Ops)), humanize.Comma(int64(res.OpsPerSec())),
			humanize.Comma(int64(res.Reads)), humanize.Comma(int64(res.Writes)),
			res.HitRate()*100, humanize.Comma(int64(t.Len())))
		if bc, ok := t.(benchCache); ok {
			s := bc.Strategy()
			line += " strategy=" + s.String()
			if p.Expect != nil && *p.Expect != s {
				logger.Warn("unexpected strategy after phase",
					"phase", i, "kind", p.Kind, "want", p.Expect.String(), "got", s.String())
			}
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// setupLogger builds a slog logger writing to stderr.
func setupLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl, AddSource: level == "debug"}

	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h)
}
