package router

import (
	"github.com/buildbarn/bb-split-ldif/internal/dn"
	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
)

// HashOnRDN hashes the canonical form of an entry's one-level-below-
// base RDN with FNV-1a/32 and reduces modulo numSets. It is stateless
// and needs no parent map: a descendant can always recompute its
// ancestor's RDN directly from its own DN.
type HashOnRDN struct {
	numSets int
}

// NewHashOnRDN constructs the hash-on-RDN strategy for numSets
// shards. numSets must be >= 2.
func NewHashOnRDN(numSets int) *HashOnRDN {
	return &HashOnRDN{numSets: numSets}
}

func (h *HashOnRDN) RouteOneLevel(_ *ldifio.Entry, rdn dn.RDN) ShardID {
	idx := hashReduce([]byte(rdn.CanonicalString()), h.numSets)
	return NumberedShard(idx + 1)
}

func (h *HashOnRDN) NeedsParentMap() bool {
	return false
}

func (h *HashOnRDN) NumSets() int {
	return h.numSets
}
