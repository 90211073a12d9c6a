package router

import (
	"github.com/buildbarn/bb-split-ldif/internal/dn"
	"github.com/buildbarn/bb-split-ldif/internal/filterexpr"
	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
	"github.com/buildbarn/bb-split-ldif/internal/schema"
)

// FilterBased routes each one-level entry to the shard of the first
// filter it matches, falling back to hash-on-RDN (with N equal to
// the number of filters) when none match.
type FilterBased struct {
	filters  []*filterexpr.Filter
	schema   *schema.Schema
	fallback *HashOnRDN
}

// NewFilterBased constructs the filter strategy. filters must already
// be validated for distinctness by the caller (component F).
func NewFilterBased(filters []*filterexpr.Filter, sch *schema.Schema) *FilterBased {
	return &FilterBased{
		filters:  filters,
		schema:   sch,
		fallback: NewHashOnRDN(len(filters)),
	}
}

func (f *FilterBased) RouteOneLevel(entry *ldifio.Entry, rdn dn.RDN) ShardID {
	for i, filter := range f.filters {
		if filter.Evaluate(entry, f.schema.EqualityRuleFor) {
			return NumberedShard(i + 1)
		}
	}
	return f.fallback.RouteOneLevel(entry, rdn)
}

func (f *FilterBased) NeedsParentMap() bool {
	return true
}

func (f *FilterBased) NumSets() int {
	return len(f.filters)
}
