// Package router implements the four entry-routing strategies, the
// shared outer routing decision they all build on, and the parent
// map and strategy factory that tie them together.
package router

import (
	"github.com/buildbarn/bb-split-ldif/internal/dn"
	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
)

// Config holds the routing parameters common to every strategy.
type Config struct {
	SplitBaseDN        dn.DN
	OutsideToAllSets   bool
	OutsideToDedicated bool
	AssumeFlatDIT      bool
}

// OneLevelStrategy computes the single numbered shard for an entry
// known to sit exactly one level below the split base (or, under the
// flat-DIT fallback, for a deeper entry being evaluated as if it were
// one level below). rdn is the RDN that sits one level below the
// split base in the entry's ancestry.
type OneLevelStrategy interface {
	// RouteOneLevel returns the numbered shard this entry's RDN/
	// attributes resolve to.
	RouteOneLevel(entry *ldifio.Entry, rdn dn.RDN) ShardID

	// NeedsParentMap reports whether one-level decisions made by
	// this strategy must be recorded in the parent map for deeper
	// entries to inherit.
	NeedsParentMap() bool

	// NumSets returns the number of numbered shards this strategy
	// was configured with.
	NumSets() int
}

// Decision is the outcome of routing one entry.
type Decision struct {
	// ShardSet is the (possibly empty) set of shards the entry is
	// routed to. It is meaningless when Deferred is true.
	ShardSet ShardSet
	// Deferred is true when the entry is strictly below the base,
	// deeper than one level, in non-flat-DIT mode, routed by a
	// strategy that needs the parent map, and its parent's
	// shard-set was not yet present in the parent map. The caller
	// (the dispatcher) must retry Route for this entry once, later.
	Deferred bool
}

// Router applies the shared outer decision from the component design
// (outside / one-level / deeper) around a strategy-specific
// OneLevelStrategy.
type Router struct {
	cfg        Config
	strategy   OneLevelStrategy
	parentMap  *ParentMap
}

// New constructs a Router for the given strategy.
func New(cfg Config, strategy OneLevelStrategy, parentMap *ParentMap) *Router {
	return &Router{cfg: cfg, strategy: strategy, parentMap: parentMap}
}

// Route computes the routing decision for entry. entryDN is the
// entry's already-parsed DN (the translation pipeline parses it once
// and the dispatcher reuses it when it retries a deferred decision).
func (r *Router) Route(entry *ldifio.Entry, entryDN dn.DN) Decision {
	base := r.cfg.SplitBaseDN

	if entryDN.Equal(base) || !entryDN.IsBelow(base) {
		return Decision{ShardSet: r.routeOutside()}
	}

	depth := entryDN.Depth(base)
	if depth == 1 {
		rdn, _ := entryDN.RelativeComponent(base)
		shard := r.strategy.RouteOneLevel(entry, rdn)
		set := NewShardSet(shard)
		if r.strategy.NeedsParentMap() {
			r.parentMap.LoadOrStore(entryDN.CanonicalString(), set)
		}
		return Decision{ShardSet: set}
	}

	// A strategy that doesn't need the parent map can recompute its
	// one-level-below-base ancestor's RDN directly from entryDN at any
	// depth, the same way the flat-DIT fallback does — so it never
	// needs to consult (or populate) the parent map at all.
	if r.cfg.AssumeFlatDIT || !r.strategy.NeedsParentMap() {
		ancestorRDN, _ := entryDN.RelativeComponent(base)
		shard := r.strategy.RouteOneLevel(entry, ancestorRDN)
		return Decision{ShardSet: NewShardSet(shard)}
	}

	parent, ok := entryDN.Parent()
	if !ok {
		return Decision{Deferred: true}
	}
	set, found := r.parentMap.Load(parent.CanonicalString())
	if !found {
		return Decision{Deferred: true}
	}
	inherited := set.Clone()
	r.parentMap.LoadOrStore(entryDN.CanonicalString(), inherited)
	return Decision{ShardSet: inherited}
}

func (r *Router) routeOutside() ShardSet {
	switch {
	case r.cfg.OutsideToAllSets:
		// Every numbered shard, sized off the strategy's NumSets().
		// See allNumberedShards below.
		return r.allNumberedShards()
	case r.cfg.OutsideToDedicated:
		return NewShardSet(OutsideShard)
	default:
		return NewShardSet()
	}
}

func (r *Router) allNumberedShards() ShardSet {
	n := r.strategy.NumSets()
	set := make(ShardSet, n)
	for i := 1; i <= n; i++ {
		set[NumberedShard(i)] = struct{}{}
	}
	return set
}
