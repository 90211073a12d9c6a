package router

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/buildbarn/bb-split-ldif/internal/filterexpr"
	"github.com/buildbarn/bb-split-ldif/internal/schema"
)

// HashOnRDNOptions configures the hash-on-RDN strategy.
type HashOnRDNOptions struct {
	NumSets int
}

// HashOnAttributeOptions configures the hash-on-attribute strategy.
type HashOnAttributeOptions struct {
	NumSets      int
	Attribute    string
	UseAllValues bool
}

// FewestEntriesOptions configures the fewest-entries strategy.
type FewestEntriesOptions struct {
	NumSets int
}

// FilterOptions configures the filter strategy.
type FilterOptions struct {
	Filters []string
	Schema  *schema.Schema
}

func validateNumSets(numSets int) error {
	if numSets < 2 {
		return status.Errorf(codes.InvalidArgument, "numSets must be at least 2, got %d", numSets)
	}
	return nil
}

// NewHashOnRDNStrategy validates opts and builds the strategy.
func NewHashOnRDNStrategy(opts HashOnRDNOptions) (OneLevelStrategy, error) {
	if err := validateNumSets(opts.NumSets); err != nil {
		return nil, err
	}
	return NewHashOnRDN(opts.NumSets), nil
}

// NewHashOnAttributeStrategy validates opts and builds the strategy.
func NewHashOnAttributeStrategy(opts HashOnAttributeOptions) (OneLevelStrategy, error) {
	if err := validateNumSets(opts.NumSets); err != nil {
		return nil, err
	}
	if opts.Attribute == "" {
		return nil, status.Error(codes.InvalidArgument, "hash-on-attribute requires an attribute name")
	}
	return NewHashOnAttribute(opts.NumSets, opts.Attribute, opts.UseAllValues), nil
}

// NewFewestEntriesStrategy validates opts and builds the strategy.
func NewFewestEntriesStrategy(opts FewestEntriesOptions) (OneLevelStrategy, error) {
	if err := validateNumSets(opts.NumSets); err != nil {
		return nil, err
	}
	return NewFewestEntries(opts.NumSets), nil
}

// NewFilterStrategy validates opts (at least two filters, all
// distinct by canonical form) and builds the strategy.
func NewFilterStrategy(opts FilterOptions) (OneLevelStrategy, error) {
	if len(opts.Filters) < 2 {
		return nil, status.Errorf(codes.InvalidArgument, "filter strategy requires at least 2 filters, got %d", len(opts.Filters))
	}

	compiled := make([]*filterexpr.Filter, 0, len(opts.Filters))
	for _, raw := range opts.Filters {
		f, err := filterexpr.Compile(raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid filter %q: %v", raw, err)
		}
		compiled = append(compiled, f)
	}

	for i := 0; i < len(compiled); i++ {
		for j := i + 1; j < len(compiled); j++ {
			if compiled[i].Equivalent(compiled[j]) {
				return nil, status.Errorf(codes.InvalidArgument, "duplicate filter: %q and %q are equivalent", opts.Filters[i], opts.Filters[j])
			}
		}
	}

	return NewFilterBased(compiled, opts.Schema), nil
}

// ValidateOutsideHandling enforces the mutual exclusivity of the two
// outside-handling flags.
func ValidateOutsideHandling(outsideToAllSets, outsideToDedicated bool) error {
	if outsideToAllSets && outsideToDedicated {
		return status.Error(codes.InvalidArgument, "addEntriesOutsideSplitBaseDNToAllSets and addEntriesOutsideSplitBaseDNToDedicatedSet are mutually exclusive")
	}
	return nil
}
