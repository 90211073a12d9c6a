package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/status"
)

// RequireEqualStatus asserts that two grpc Statuses are equal.
func RequireEqualStatus(t *testing.T, want, got error) {
	t.Helper()
	wantStatus := status.Convert(want)
	gotStatus := status.Convert(got)
	require.Equal(t, wantStatus.Code(), gotStatus.Code(), "status codes differ: want %v, got %v", wantStatus, gotStatus)
	require.Equal(t, wantStatus.Message(), gotStatus.Message(), "status messages differ")
}

// RequirePrefixedStatus compares that two errors, assumed to be grpc
// Statuses, are the same, except got may have extra trailing
// characters in its message.
func RequirePrefixedStatus(t *testing.T, want, got error) {
	t.Helper()
	wantStatus := status.Convert(want)
	gotStatus := status.Convert(got)
	require.Equal(t, wantStatus.Code(), gotStatus.Code(), "status codes differ: want %v, got %v", wantStatus, gotStatus)
	require.True(t, strings.HasPrefix(gotStatus.Message(), wantStatus.Message()),
		"want message of status\n%v\nto have prefix\n%v", gotStatus, wantStatus.Message())
}
