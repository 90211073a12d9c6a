package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSchemaFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSchemaFile(t, dir, "00-core.ldif", ""+
		"dn: cn=schema\n"+
		"attributeTypes: ( 2.5.4.3 NAME 'cn' EQUALITY caseIgnoreMatch SYNTAX '1.3.6.1.4.1.1466.115.121.1.15' )\n"+
		"attributeTypes: ( 2.5.4.49 NAME 'distinguishedName' EQUALITY distinguishedNameMatch )\n"+
		"attributeTypes: ( 1.3.6.1.1.16.4 NAME 'entryUUID' EQUALITY caseExactMatch )\n")

	s, err := Load([]string{path})
	require.NoError(t, err)
	require.Equal(t, CaseIgnoreMatch, s.EqualityRuleFor("cn"))
	require.Equal(t, CaseIgnoreMatch, s.EqualityRuleFor("CN"))
	require.Equal(t, CaseExactMatch, s.EqualityRuleFor("entryUUID"))
	require.Equal(t, CaseIgnoreMatch, s.EqualityRuleFor("unknownAttribute"))
}

func TestLoadDirectorySortedByName(t *testing.T) {
	dir := t.TempDir()
	writeSchemaFile(t, dir, "01-later.ldif", "attributeTypes: ( 1.1 NAME 'x' EQUALITY caseIgnoreMatch )\n")
	writeSchemaFile(t, dir, "00-first.ldif", "attributeTypes: ( 1.2 NAME 'x' EQUALITY caseExactMatch )\n")

	s, err := Load([]string{dir})
	require.NoError(t, err)
	// Both files declare 'x'; the later file read (01-later, sorted
	// after 00-first) determines the final rule.
	require.Equal(t, CaseIgnoreMatch, s.EqualityRuleFor("x"))
}

func TestNilSchemaDefaultsToCaseIgnore(t *testing.T) {
	var s *Schema
	require.Equal(t, CaseIgnoreMatch, s.EqualityRuleFor("cn"))
}
