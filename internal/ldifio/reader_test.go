package ldifio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string, numThreads int) ([]*Result, *FatalError) {
	t.Helper()
	r := NewReader(strings.NewReader(input), numThreads, func(e *Entry) interface{} {
		return e.DN
	})
	out, fatal := r.Run(context.Background())
	var results []*Result
	for res := range out {
		results = append(results, res)
	}
	return results, fatal
}

func TestReaderOrdersBySourceSequenceAcrossThreads(t *testing.T) {
	input := "dn: dc=example,dc=com\nobjectClass: domain\n\n" +
		"dn: ou=People,dc=example,dc=com\nobjectClass: organizationalUnit\n\n" +
		"dn: uid=alice,ou=People,dc=example,dc=com\nobjectClass: person\n\n"

	for _, numThreads := range []int{1, 2, 4, 8} {
		results, fatal := collect(t, input, numThreads)
		require.NoError(t, fatal.Err())
		require.Len(t, results, 3)
		require.Equal(t, "dc=example,dc=com", results[0].Value)
		require.Equal(t, "ou=People,dc=example,dc=com", results[1].Value)
		require.Equal(t, "uid=alice,ou=People,dc=example,dc=com", results[2].Value)
		for i, r := range results {
			require.EqualValues(t, i, r.Seq)
		}
	}
}

func TestEntryBytesIsByteExact(t *testing.T) {
	input := "dn: uid=alice,ou=People,dc=example,dc=com\ncn: Alice\nsn: Smith\n\n"
	results, fatal := collect(t, input, 1)
	require.NoError(t, fatal.Err())
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Entry)
	require.Equal(t, input, string(results[0].Entry.Bytes()))
}

func TestMalformedRecordIsRecoverableAndSurroundedEntriesSurvive(t *testing.T) {
	input := "dn: dc=example,dc=com\nobjectClass: domain\n\n" +
		"this is not a valid record\n\n" +
		"dn: ou=People,dc=example,dc=com\nobjectClass: organizationalUnit\n\n"

	results, fatal := collect(t, input, 1)
	require.NoError(t, fatal.Err())
	require.Len(t, results, 3)
	require.Nil(t, results[0].ParseErr)
	require.NotNil(t, results[1].ParseErr)
	require.True(t, results[1].ParseErr.Recoverable)
	require.Nil(t, results[2].ParseErr)
}

func TestBase64ValueIsDecoded(t *testing.T) {
	input := "dn: uid=alice,ou=People,dc=example,dc=com\ncn:: QWxpY2U=\n\n"
	results, fatal := collect(t, input, 1)
	require.NoError(t, fatal.Err())
	require.Len(t, results, 1)
	values := results[0].Entry.Values("cn")
	require.Equal(t, [][]byte{[]byte("Alice")}, values)
}

func TestLineFoldingIsUnfoldedForAttributeAccess(t *testing.T) {
	input := "dn: uid=alice,ou=People,dc=example,dc=com\ndescription: a very long\n value that wraps\n\n"
	results, fatal := collect(t, input, 1)
	require.NoError(t, fatal.Err())
	require.Len(t, results, 1)
	values := results[0].Entry.Values("description")
	require.Equal(t, [][]byte{[]byte("a very longvalue that wraps")}, values)
	require.Equal(t, input, string(results[0].Entry.Bytes()))
}
