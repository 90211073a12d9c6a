// Package ldifio implements the LDIF record reader, entry model, and
// byte-exact serializer that the router and dispatcher build on. LDIF
// parsing has no counterpart in the third-party dependency graph this
// module otherwise draws from, so it is implemented directly against
// the standard library.
package ldifio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// Attribute is one attribute/value pair from an entry, in the order
// it appeared in the source record.
type Attribute struct {
	Name  string
	Value []byte
}

// Entry is a single parsed LDIF record.
type Entry struct {
	// DN is the entry's distinguished name, exactly as written in the
	// source (not normalized).
	DN string

	// Attributes holds every attribute line of the record except the
	// leading dn: line, in source order.
	Attributes []Attribute

	// rawLines holds the verbatim lines of the record (comments, the
	// dn: line, and every attribute line, with any RFC 2849 line
	// folding preserved exactly as read) so that Bytes can reproduce
	// the record byte-for-byte.
	rawLines []string
}

// Values returns the decoded values of every attribute matching name,
// case-insensitively, in source order.
func (e *Entry) Values(name string) [][]byte {
	var values [][]byte
	for _, a := range e.Attributes {
		if strings.EqualFold(a.Name, name) {
			values = append(values, a.Value)
		}
	}
	return values
}

// RawLines returns the verbatim source lines of the record (comments,
// the dn: line, and every attribute line, with any line folding
// preserved), excluding the trailing blank line.
func (e *Entry) RawLines() []string {
	lines := make([]string, len(e.rawLines))
	copy(lines, e.rawLines)
	return lines
}

// Bytes reproduces the entry's original LDIF text, terminated by a
// single blank line, satisfying the byte-exact serialization
// requirement.
func (e *Entry) Bytes() []byte {
	var buf bytes.Buffer
	for _, line := range e.rawLines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// ParseError describes a record that could not be turned into an
// Entry. Recoverable parse errors permit the reader to continue with
// the next record; unrecoverable ones mean the underlying stream
// itself cannot be trusted.
type ParseError struct {
	Message     string
	RawLines    []string
	Recoverable bool
}

func (e *ParseError) Error() string {
	return e.Message
}

// parseEntry turns one record's raw lines (as produced by the
// tokenizer, with blank separator lines already stripped) into an
// Entry. Comment lines (#-prefixed) preceding the dn: line are kept
// in rawLines but are not treated as attributes.
func parseEntry(lines []string) (*Entry, *ParseError) {
	if len(lines) > 0 && strings.HasPrefix(lines[0], " ") {
		// A record cannot open with a continuation line: there is no
		// preceding line for it to fold into, so the attribute
		// boundaries of this record (and, by construction of the
		// surrounding stream, its neighbors) can no longer be trusted.
		return nil, &ParseError{
			Message:     "record begins with a line continuation",
			RawLines:    lines,
			Recoverable: false,
		}
	}

	logical := unfold(lines)

	var dn string
	haveDN := false
	var attrs []Attribute

	for _, line := range logical {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			continue
		}
		name, value, err := splitAttributeLine(line)
		if err != nil {
			return nil, &ParseError{
				Message:     err.Error(),
				RawLines:    lines,
				Recoverable: true,
			}
		}
		if !haveDN {
			if !strings.EqualFold(name, "dn") {
				return nil, &ParseError{
					Message:     "record does not begin with a dn: line",
					RawLines:    lines,
					Recoverable: true,
				}
			}
			dn = string(value)
			haveDN = true
			continue
		}
		attrs = append(attrs, Attribute{Name: name, Value: value})
	}

	if !haveDN {
		return nil, &ParseError{
			Message:     "record has no dn: line",
			RawLines:    lines,
			Recoverable: true,
		}
	}

	return &Entry{
		DN:         dn,
		Attributes: attrs,
		rawLines:   lines,
	}, nil
}

// unfold joins RFC 2849 continuation lines (a line beginning with a
// single space continues the previous logical line) without altering
// the caller's copy of the raw lines.
func unfold(lines []string) []string {
	logical := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, " ") && len(logical) > 0 {
			logical[len(logical)-1] += line[1:]
			continue
		}
		logical = append(logical, line)
	}
	return logical
}

// splitAttributeLine parses one unfolded "name: value" or
// "name:: base64value" line.
func splitAttributeLine(line string) (string, []byte, error) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", nil, fmt.Errorf("attribute line has no ':' separator: %q", line)
	}
	name := line[:idx]
	rest := line[idx+1:]

	if strings.HasPrefix(rest, ":") {
		encoded := strings.TrimSpace(rest[1:])
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", nil, fmt.Errorf("attribute %q has invalid base64 value: %w", name, err)
		}
		return name, decoded, nil
	}
	if strings.HasPrefix(rest, "<") {
		return "", nil, fmt.Errorf("attribute %q uses an unsupported URL value reference", name)
	}
	return name, []byte(strings.TrimPrefix(rest, " ")), nil
}
