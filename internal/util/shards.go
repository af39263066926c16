package util

import "runtime"

// ReasonableShardCount picks a default shard count from CPU parallelism:
// nextPow2(2*GOMAXPROCS), clamped to [1..256].
func ReasonableShardCount() int {
	p := max(runtime.GOMAXPROCS(0), 1)
	return min(int(NextPow2(uint64(p*2))), 256)
}

// ShardCount normalizes a requested shard count for a cache of the given
// capacity: auto when requested <= 0, rounded up to a power of two, then
// halved until every shard gets at least one slot.
func ShardCount(requested, capacity int) int {
	n := requested
	if n <= 0 {
		n = ReasonableShardCount()
	}
	n = int(NextPow2(uint64(n)))
	for n > 1 && n > capacity {
		n >>= 1
	}
	return n
}

// ShardIndex maps a hash to a shard. shards must be a power of two.
func ShardIndex(hash uint64, shards int) int {
	return int(hash & uint64(shards-1))
}
