package cache

import (
	"strings"
	"testing"
)

// Fuzz Put/Get/Peek semantics under arbitrary string inputs, with enough
// traffic around each key to cross several decision windows.
// NOTE: key/value lengths are capped to keep fuzzing memory bounded.
func FuzzCache_PutGet(f *testing.F) {
	f.Add("", "", uint8(0))
	f.Add("a", "1", uint8(3))
	f.Add("αβγ", "δ", uint8(90))
	f.Add("emoji🙂", "🙂🙂", uint8(250))
	f.Add("long", strings.Repeat("x", 1024), uint8(17))

	f.Fuzz(func(t *testing.T, k, v string, noise uint8) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := MustNew[string, string](Options[string, string]{Capacity: 16})

		c.Put(k, v)
		if got, ok := c.Get(k); !ok || got != v {
			t.Fatalf("after Put/Get: want %q, got %q ok=%v", v, got, ok)
		}

		// Interleave misses and repeated hits; k stays resident because no
		// other key is ever inserted.
		for i := 0; i < 3*DecisionWindow; i++ {
			if int(noise) > i%256 {
				c.Get(k + "#miss")
			} else if got, ok := c.Get(k); !ok || got != v {
				t.Fatalf("step %d (%s): want %q, got %q ok=%v", i, c.Strategy(), v, got, ok)
			}
		}
		if got, ok := c.Peek(k); !ok || got != v {
			t.Fatalf("after windows: want %q, got %q ok=%v", v, got, ok)
		}
		if c.Len() != 1 {
			t.Fatalf("Len want 1, got %d", c.Len())
		}

		c.Put(k, v+"!")
		if got, _ := c.Get(k); got != v+"!" {
			t.Fatalf("overwrite lost: got %q", got)
		}
	})
}
