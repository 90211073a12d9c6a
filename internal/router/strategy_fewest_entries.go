package router

import (
	"sync"

	"github.com/buildbarn/bb-split-ldif/pkg/atomic"

	"github.com/buildbarn/bb-split-ldif/internal/dn"
	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
)

// FewestEntries routes each one-level entry to the numbered shard
// with the smallest current count, breaking ties by lowest index.
// Selecting the minimum and incrementing it must happen as one atomic
// step with respect to concurrent routing, so the compound
// select-and-increment operation is guarded by a mutex even though
// each individual counter is itself a lock-free pkg/atomic.Int64.
type FewestEntries struct {
	numSets int
	mu      sync.Mutex
	counts  []atomic.Int64
}

// NewFewestEntries constructs the fewest-entries strategy for numSets
// shards.
func NewFewestEntries(numSets int) *FewestEntries {
	return &FewestEntries{numSets: numSets, counts: make([]atomic.Int64, numSets)}
}

func (f *FewestEntries) RouteOneLevel(_ *ldifio.Entry, _ dn.RDN) ShardID {
	f.mu.Lock()
	defer f.mu.Unlock()

	minIdx := 0
	minCount := f.counts[0].Load()
	for i := 1; i < len(f.counts); i++ {
		if c := f.counts[i].Load(); c < minCount {
			minIdx = i
			minCount = c
		}
	}
	f.counts[minIdx].Add(1)
	return NumberedShard(minIdx + 1)
}

func (f *FewestEntries) NeedsParentMap() bool {
	return true
}

func (f *FewestEntries) NumSets() int {
	return f.numSets
}

// Count returns the current count for the index'th shard (1-based),
// for reporting purposes.
func (f *FewestEntries) Count(index int) int64 {
	return f.counts[index-1].Load()
}
