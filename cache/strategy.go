package cache

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Strategy is the eviction discipline currently serving the cache.
type Strategy uint8

const (
	// LRU evicts the least recently used entry. It is the initial strategy.
	LRU Strategy = iota
	// LFU evicts the least frequently used entry, oldest first on ties.
	LFU
)

// ErrUnknownStrategy is returned when parsing a strategy name fails.
var ErrUnknownStrategy = errors.New("cache: unknown strategy")

func (s Strategy) String() string {
	switch s {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	default:
		return "strategy(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseStrategy accepts "lru" or "lfu" (case-insensitive).
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lru":
		return LRU, nil
	case "lfu":
		return LFU, nil
	}
	return LRU, errors.Wrapf(ErrUnknownStrategy, "%q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s != LRU && s != LFU {
		return nil, errors.Wrapf(ErrUnknownStrategy, "%d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
