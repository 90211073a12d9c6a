package router

import "sync"

// ParentMap is the thread-safe DN → shard-set cache described in the
// component design: concurrent writers, idempotent inserts, readers
// observing a happens-before relation with the write that produced
// the value. sync.Map's LoadOrStore gives exactly that without a
// hand-rolled lock.
type ParentMap struct {
	entries sync.Map // canonical DN string -> ShardSet
}

// NewParentMap constructs an empty parent map.
func NewParentMap() *ParentMap {
	return &ParentMap{}
}

// LoadOrStore inserts set for key if no value is present yet, and
// returns the value now associated with key (either the one just
// stored, or the one a concurrent writer stored first) along with
// whether it was already present.
func (m *ParentMap) LoadOrStore(key string, set ShardSet) (ShardSet, bool) {
	actual, loaded := m.entries.LoadOrStore(key, set)
	return actual.(ShardSet), loaded
}

// Load returns the shard-set previously recorded for key, if any.
func (m *ParentMap) Load(key string) (ShardSet, bool) {
	v, ok := m.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(ShardSet), true
}
