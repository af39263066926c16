package main

import (
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/IvanBrykalov/adaptcache/cache"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind selects how a phase draws keys.
type Kind string

const (
	// KindScan touches every key once; nothing is ever reused.
	KindScan Kind = "scan"
	// KindHotspot hammers a handful of keys.
	KindHotspot Kind = "hotspot"
	// KindZipf draws from a skewed distribution over the keyspace.
	KindZipf Kind = "zipf"
)

// Phase is one stretch of uniform traffic.
type Phase struct {
	Kind     Kind          `yaml:"kind"`
	Duration time.Duration `yaml:"duration"`
	// Ops caps the number of operations; 0 means run for Duration.
	Ops     int `yaml:"ops"`
	Reads   int `yaml:"reads"`
	HotKeys int `yaml:"hot_keys"`
	// Expect, when set, is the strategy the cache should end the phase in.
	Expect *cache.Strategy `yaml:"expect"`
}

// Config drives a bench run. Flags fill it first; a YAML file given with
// -config overrides whatever fields it sets.
type Config struct {
	Capacity int     `yaml:"capacity"`
	Shards   int     `yaml:"shards"`
	Workers  int     `yaml:"workers"`
	Keys     int     `yaml:"keys"`
	ZipfS    float64 `yaml:"zipf_s"`
	ZipfV    float64 `yaml:"zipf_v"`
	Seed     int64   `yaml:"seed"`
	Preload  int     `yaml:"preload"`
	Phases   []Phase `yaml:"phases"`

	// Baseline repeats every phase on hashicorp/golang-lru for comparison.
	Baseline bool `yaml:"baseline"`

	MetricsAddr string `yaml:"metrics_addr"`
	PprofAddr   string `yaml:"pprof_addr"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// parseConfig reads flags from args and overlays the optional YAML file.
func parseConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	var (
		cfg      Config
		path     string
		phases   string
		phaseDur time.Duration
		phaseOps int
		reads    int
		hot      int
	)
	fs.StringVar(&path, "config", "", "YAML config file; its fields override flags")

	fs.IntVar(&cfg.Capacity, "cap", 100_000, "cache capacity (entries)")
	fs.IntVar(&cfg.Shards, "shards", 0, "number of shards (0=auto, 1=single Synced cache)")
	fs.IntVar(&cfg.Workers, "workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")

	fs.IntVar(&cfg.Keys, "keys", 1_000_000, "keyspace size for zipf phases")
	fs.Float64Var(&cfg.ZipfS, "zipf_s", 1.1, "Zipf s > 1 (skew)")
	fs.Float64Var(&cfg.ZipfV, "zipf_v", 1.0, "Zipf v >= 1")
	fs.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "random seed")
	fs.IntVar(&cfg.Preload, "preload", 0, "preload entries (0 = cap/2)")

	fs.StringVar(&phases, "phases", "zipf,scan,hotspot", "comma-separated phases: scan | hotspot | zipf")
	fs.DurationVar(&phaseDur, "duration", 5*time.Second, "duration of each phase")
	fs.IntVar(&phaseOps, "ops", 0, "operation cap per phase (0 = duration only)")
	fs.IntVar(&reads, "reads", 80, "read percentage [0..100]")
	fs.IntVar(&hot, "hot", 8, "number of keys in hotspot phases")
	fs.BoolVar(&cfg.Baseline, "baseline", false, "also run every phase on hashicorp/golang-lru")

	fs.StringVar(&cfg.MetricsAddr, "http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	fs.StringVar(&cfg.PprofAddr, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	fs.StringVar(&cfg.Log.Level, "log-level", "info", "log level: debug | info | warn | error")
	fs.StringVar(&cfg.Log.Format, "log-format", "text", "log format: text | json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	cfg.Phases, err = parsePhases(phases, phaseDur, phaseOps, reads, hot)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadConfig(path, &cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Preload == 0 {
		cfg.Preload = cfg.Capacity / 2
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfig decodes the YAML file at path on top of cfg.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse config")
	}
	return nil
}

// parsePhases turns "scan,hotspot" into phases sharing the flag settings.
// Scan phases are expected to end in LRU and hotspot phases in LFU.
func parsePhases(list string, d time.Duration, ops, reads, hot int) ([]Phase, error) {
	var out []Phase
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p := Phase{Kind: Kind(name), Duration: d, Ops: ops, Reads: reads, HotKeys: hot}
		switch p.Kind {
		case KindScan:
			p.Expect = strategyPtr(cache.LRU)
		case KindHotspot:
			p.Expect = strategyPtr(cache.LFU)
		case KindZipf:
		default:
			return nil, errors.Errorf("unknown phase %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}

func strategyPtr(s cache.Strategy) *cache.Strategy { return &s }

func (c *Config) validate() error {
	switch {
	case c.Capacity < 1:
		return errors.Wrapf(cache.ErrInvalidCapacity, "cap %d", c.Capacity)
	case c.Workers < 1:
		return errors.Errorf("workers must be >= 1, got %d", c.Workers)
	case c.Keys < 1:
		return errors.Errorf("keys must be >= 1, got %d", c.Keys)
	case c.ZipfS <= 1 || c.ZipfV < 1:
		return errors.Errorf("zipf needs s > 1 and v >= 1, got s=%v v=%v", c.ZipfS, c.ZipfV)
	case len(c.Phases) == 0:
		return errors.New("no phases configured")
	}
	for i, p := range c.Phases {
		switch p.Kind {
		case KindScan, KindHotspot, KindZipf:
		default:
			return errors.Errorf("phase %d: unknown kind %q", i, p.Kind)
		}
		if p.Duration <= 0 && p.Ops <= 0 {
			return errors.Errorf("phase %d (%s): needs a duration or an ops cap", i, p.Kind)
		}
		if p.Reads < 0 || p.Reads > 100 {
			return errors.Errorf("phase %d (%s): reads must be in [0,100], got %d", i, p.Kind, p.Reads)
		}
	}
	return nil
}
