package cache_test

import (
	"fmt"

	"github.com/IvanBrykalov/adaptcache/cache"
)

func ExampleAdaptive() {
	c := cache.MustNew[string, int](cache.Options[string, int]{Capacity: 2})

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // a becomes most recently used
	c.Put("c", 3)

	_, hasB := c.Peek("b")
	fmt.Println(c.Strategy(), c.Len(), hasB)
	// Output: lru 2 false
}

func ExampleAdaptive_Strategy() {
	c := cache.MustNew[string, int](cache.Options[string, int]{
		Capacity: 8,
		OnSwitch: func(from, to cache.Strategy) { fmt.Println("switch:", from, "->", to) },
	})

	c.Put("hot", 1) // miss
	for i := 0; i < cache.DecisionWindow-1; i++ {
		c.Get("hot") // hits
	}
	fmt.Println(c.Strategy())
	// Output:
	// switch: lru -> lfu
	// lfu
}
