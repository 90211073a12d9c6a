package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestValidateNumSetsRejectsFewerThanTwo(t *testing.T) {
	require.NoError(t, validateNumSets(2))
	err := validateNumSets(1)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	err = validateNumSets(0)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNewHashOnRDNStrategyRejectsTooFewSets(t *testing.T) {
	_, err := NewHashOnRDNStrategy(HashOnRDNOptions{NumSets: 1})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNewHashOnAttributeStrategyRequiresAttribute(t *testing.T) {
	_, err := NewHashOnAttributeStrategy(HashOnAttributeOptions{NumSets: 2, Attribute: ""})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	strategy, err := NewHashOnAttributeStrategy(HashOnAttributeOptions{NumSets: 2, Attribute: "uid"})
	require.NoError(t, err)
	require.NotNil(t, strategy)
}

func TestNewFewestEntriesStrategyRejectsTooFewSets(t *testing.T) {
	_, err := NewFewestEntriesStrategy(FewestEntriesOptions{NumSets: 1})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNewFilterStrategyRequiresAtLeastTwoFilters(t *testing.T) {
	_, err := NewFilterStrategy(FilterOptions{Filters: []string{"(uid=alice)"}})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNewFilterStrategyRejectsInvalidFilter(t *testing.T) {
	_, err := NewFilterStrategy(FilterOptions{Filters: []string{"(uid=alice)", "not a filter"}})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// Filter strategy with two identical filters is a ConfigError raised
// before any processing begins.
func TestNewFilterStrategyRejectsDuplicateFilters(t *testing.T) {
	_, err := NewFilterStrategy(FilterOptions{Filters: []string{
		"(uid=alice)",
		"(uid=bob)",
		"(uid=alice)",
	}})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNewFilterStrategyAcceptsDistinctFilters(t *testing.T) {
	strategy, err := NewFilterStrategy(FilterOptions{Filters: []string{
		"(uid=alice)",
		"(uid=bob)",
	}})
	require.NoError(t, err)
	require.NotNil(t, strategy)
	require.Equal(t, 2, strategy.NumSets())
}

func TestValidateOutsideHandlingRejectsBothFlagsSet(t *testing.T) {
	require.NoError(t, ValidateOutsideHandling(false, false))
	require.NoError(t, ValidateOutsideHandling(true, false))
	require.NoError(t, ValidateOutsideHandling(false, true))

	err := ValidateOutsideHandling(true, true)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}
