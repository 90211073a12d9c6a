package router

import "fmt"

type shardKind int

const (
	shardNumbered shardKind = iota
	shardOutside
	shardErrors
)

// ShardID identifies one output shard: a numbered partition, the
// dedicated "entries outside the split base" shard, or the "errors"
// shard.
type ShardID struct {
	kind  shardKind
	index int
}

// NumberedShard returns the ShardID for the index'th partition
// (1-based).
func NumberedShard(index int) ShardID {
	return ShardID{kind: shardNumbered, index: index}
}

// OutsideShard is the dedicated shard for entries at or above the
// split base, when configured.
var OutsideShard = ShardID{kind: shardOutside}

// ErrorsShard collects malformed records and routing failures.
var ErrorsShard = ShardID{kind: shardErrors}

// Suffix returns the output filename suffix for this shard.
func (s ShardID) Suffix() string {
	switch s.kind {
	case shardNumbered:
		return fmt.Sprintf(".set%d", s.index)
	case shardOutside:
		return ".outside-split-base-dn"
	case shardErrors:
		return ".errors"
	default:
		return ".unknown"
	}
}

func (s ShardID) String() string {
	return s.Suffix()
}

// IsNumbered reports whether s is a numbered partition, as opposed to
// one of the two reserved shards.
func (s ShardID) IsNumbered() bool {
	return s.kind == shardNumbered
}

// Index returns the 1-based partition number. It is only meaningful
// when IsNumbered is true.
func (s ShardID) Index() int {
	return s.index
}

// ShardSet is the (possibly empty) set of shards an entry is routed
// to.
type ShardSet map[ShardID]struct{}

// NewShardSet builds a ShardSet from the given shards.
func NewShardSet(shards ...ShardID) ShardSet {
	s := make(ShardSet, len(shards))
	for _, sh := range shards {
		s[sh] = struct{}{}
	}
	return s
}

// Clone returns a shallow copy, so that callers sharing a ShardSet via
// the parent map never mutate each other's view of it.
func (s ShardSet) Clone() ShardSet {
	clone := make(ShardSet, len(s))
	for k := range s {
		clone[k] = struct{}{}
	}
	return clone
}
