package router

import (
	"bytes"

	"github.com/buildbarn/bb-split-ldif/internal/dn"
	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
)

// separatorByte joins multiple attribute values before hashing, per
// the component design's "reserved byte" requirement.
const separatorByte = 0x00

// HashOnAttribute hashes the entry's values of a configured attribute
// (or, if absent, falls back to hashing the one-level RDN).
type HashOnAttribute struct {
	numSets      int
	attribute    string
	useAllValues bool
}

// NewHashOnAttribute constructs the hash-on-attribute strategy.
func NewHashOnAttribute(numSets int, attribute string, useAllValues bool) *HashOnAttribute {
	return &HashOnAttribute{numSets: numSets, attribute: attribute, useAllValues: useAllValues}
}

func (h *HashOnAttribute) RouteOneLevel(entry *ldifio.Entry, rdn dn.RDN) ShardID {
	values := entry.Values(h.attribute)
	if len(values) == 0 {
		idx := hashReduce([]byte(rdn.CanonicalString()), h.numSets)
		return NumberedShard(idx + 1)
	}

	if !h.useAllValues {
		values = values[:1]
	}

	var buf bytes.Buffer
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(separatorByte)
		}
		buf.Write(v)
	}
	idx := hashReduce(buf.Bytes(), h.numSets)
	return NumberedShard(idx + 1)
}

func (h *HashOnAttribute) NeedsParentMap() bool {
	return true
}

func (h *HashOnAttribute) NumSets() int {
	return h.numSets
}
