package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func executeRoot(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

// spec.md §8 scenario 5: a filter strategy invocation naming the same
// filter twice is a ConfigError raised before any processing begins.
func TestFilterSubcommandRejectsDuplicateFilters(t *testing.T) {
	err := executeRoot(t,
		"split-using-filter",
		"--splitBaseDN", "ou=People,dc=example,dc=com",
		"--filter", "(uid=alice)",
		"--filter", "(uid=bob)",
		"--filter", "(uid=alice)",
	)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// spec.md §8 scenario 6: two source files with no --targetLDIFBasePath
// is a ConfigError, since there is no single source path to derive an
// output base path from.
func TestMultipleSourcesWithoutTargetPathIsConfigError(t *testing.T) {
	err := executeRoot(t,
		"split-using-hash-on-rdn",
		"--splitBaseDN", "ou=People,dc=example,dc=com",
		"--numSets", "2",
		"--sourceLDIF", "a.ldif",
		"--sourceLDIF", "b.ldif",
	)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// A single source file with no --targetLDIFBasePath is fine: the base
// path defaults to the source's own path, so resolution must succeed
// (the subsequent failure, if any, comes from the file not existing).
func TestSingleSourceWithoutTargetPathDefaultsToSourcePath(t *testing.T) {
	path, err := resolveTargetBasePath(&globalFlags{sourceLDIF: []string{"a.ldif"}})
	require.NoError(t, err)
	require.Equal(t, "a.ldif", path)
}

func TestMissingSplitBaseDNIsConfigError(t *testing.T) {
	err := executeRoot(t,
		"split-using-hash-on-rdn",
		"--numSets", "2",
	)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestMutuallyExclusiveOutsideFlagsIsConfigError(t *testing.T) {
	err := executeRoot(t,
		"split-using-hash-on-rdn",
		"--splitBaseDN", "ou=People,dc=example,dc=com",
		"--numSets", "2",
		"--addEntriesOutsideSplitBaseDNToAllSets",
		"--addEntriesOutsideSplitBaseDNToDedicatedSet",
		"--targetLDIFBasePath", "out",
		"--sourceLDIF", "a.ldif",
	)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}
