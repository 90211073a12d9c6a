package router

import "hash/fnv"

// hashReduce computes the FNV-1a/32 hash of data and reduces it
// modulo n, yielding a value in [0, n). FNV-1a is pinned by the
// component design as the stable, cross-run, cross-thread-count hash
// for the hash-based strategies; this mirrors the inline FNV-1a
// accumulation the router's shard-selection model is grounded on,
// using the standard library's hash/fnv instead of a hand-rolled
// loop.
func hashReduce(data []byte, n int) int {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return int(h.Sum32() % uint32(n))
}
