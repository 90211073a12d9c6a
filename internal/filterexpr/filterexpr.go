// Package filterexpr compiles RFC 4515 filter strings into a small
// evaluable tree and evaluates them against an entry's attributes
// using schema-aware equality rules. No server-side filter evaluator
// exists in the LDAP client libraries this module otherwise depends
// on, so the tree itself is hand-written; only the compilation step
// is delegated to the ecosystem.
package filterexpr

import (
	"fmt"
	"strings"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/go-ldap/ldap/v3"

	"github.com/buildbarn/bb-split-ldif/internal/schema"
)

type kind int

const (
	kindAnd kind = iota
	kindOr
	kindNot
	kindEquality
	kindPresent
	kindSubstrings
)

type substringKind int

const (
	substringInitial substringKind = iota
	substringAny
	substringFinal
)

type substringSegment struct {
	kind substringKind
	text string
}

type node struct {
	kind        kind
	attribute   string
	value       string
	substrings  []substringSegment
	children    []*node
}

// Filter is a compiled RFC 4515 filter.
type Filter struct {
	canonical string
	root      *node
}

// AttributeSource is satisfied by any entry representation that can
// report its attribute values by name; *ldifio.Entry implements it.
type AttributeSource interface {
	Values(name string) [][]byte
}

// Compile compiles a filter string, using
// github.com/go-ldap/ldap/v3's RFC 4515 compiler for the grammar and
// its decompiler to derive a canonical string used for duplicate
// detection.
func Compile(filterString string) (*Filter, error) {
	packet, err := ldap.CompileFilter(filterString)
	if err != nil {
		return nil, err
	}
	root, err := nodeFromPacket(packet)
	if err != nil {
		return nil, err
	}
	canonical, err := ldap.DecompileFilter(packet)
	if err != nil {
		return nil, err
	}
	return &Filter{canonical: canonical, root: root}, nil
}

// Equivalent reports whether two filters are the same filter after
// canonicalization, which is how duplicate --filter values are
// rejected.
func (f *Filter) Equivalent(other *Filter) bool {
	return f.canonical == other.canonical
}

// String returns the filter's canonical textual form.
func (f *Filter) String() string {
	return f.canonical
}

// Evaluate reports whether entry matches the filter. ruleFor supplies
// the equality-matching rule for an attribute type; pass
// (*schema.Schema)(nil).EqualityRuleFor when no schema was loaded, or
// nil to use CaseIgnoreMatch unconditionally.
func (f *Filter) Evaluate(entry AttributeSource, ruleFor func(attrType string) schema.EqualityRule) bool {
	if ruleFor == nil {
		ruleFor = func(string) schema.EqualityRule { return schema.CaseIgnoreMatch }
	}
	return evalNode(f.root, entry, ruleFor)
}

func evalNode(n *node, entry AttributeSource, ruleFor func(string) schema.EqualityRule) bool {
	switch n.kind {
	case kindAnd:
		for _, c := range n.children {
			if !evalNode(c, entry, ruleFor) {
				return false
			}
		}
		return true
	case kindOr:
		for _, c := range n.children {
			if evalNode(c, entry, ruleFor) {
				return true
			}
		}
		return false
	case kindNot:
		return !evalNode(n.children[0], entry, ruleFor)
	case kindPresent:
		return len(entry.Values(n.attribute)) > 0
	case kindEquality:
		rule := ruleFor(n.attribute)
		target := normalize(n.value, rule)
		for _, v := range entry.Values(n.attribute) {
			if normalize(string(v), rule) == target {
				return true
			}
		}
		return false
	case kindSubstrings:
		rule := ruleFor(n.attribute)
		for _, v := range entry.Values(n.attribute) {
			if matchSubstrings(normalize(string(v), rule), n.substrings, rule) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchSubstrings(value string, segments []substringSegment, rule schema.EqualityRule) bool {
	remaining := value
	for i, seg := range segments {
		text := normalize(seg.text, rule)
		switch seg.kind {
		case substringInitial:
			if !strings.HasPrefix(remaining, text) {
				return false
			}
			remaining = remaining[len(text):]
		case substringFinal:
			if !strings.HasSuffix(remaining, text) {
				return false
			}
			remaining = remaining[:len(remaining)-len(text)]
		case substringAny:
			idx := strings.Index(remaining, text)
			if idx < 0 {
				return false
			}
			remaining = remaining[idx+len(text):]
		}
		_ = i
	}
	return true
}

// normalize applies the attribute's equality rule: both rules fold
// runs of ASCII whitespace to a single space and trim the ends;
// CaseIgnoreMatch additionally lowercases.
func normalize(v string, rule schema.EqualityRule) string {
	v = strings.TrimSpace(v)
	var b strings.Builder
	inSpace := false
	for _, r := range v {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	s := b.String()
	if rule == schema.CaseIgnoreMatch {
		s = strings.ToLower(s)
	}
	return s
}

func nodeFromPacket(packet *ber.Packet) (*node, error) {
	switch packet.Tag {
	case ber.Tag(ldap.FilterAnd):
		n := &node{kind: kindAnd}
		for _, c := range packet.Children {
			child, err := nodeFromPacket(c)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		}
		return n, nil
	case ber.Tag(ldap.FilterOr):
		n := &node{kind: kindOr}
		for _, c := range packet.Children {
			child, err := nodeFromPacket(c)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		}
		return n, nil
	case ber.Tag(ldap.FilterNot):
		if len(packet.Children) != 1 {
			return nil, fmt.Errorf("filterexpr: not filter must have exactly one child")
		}
		child, err := nodeFromPacket(packet.Children[0])
		if err != nil {
			return nil, err
		}
		return &node{kind: kindNot, children: []*node{child}}, nil
	case ber.Tag(ldap.FilterEqualityMatch):
		attr, value, err := twoStringChildren(packet)
		if err != nil {
			return nil, err
		}
		return &node{kind: kindEquality, attribute: attr, value: value}, nil
	case ber.Tag(ldap.FilterPresent):
		attr, ok := packet.Value.(string)
		if !ok {
			return nil, fmt.Errorf("filterexpr: present filter has no attribute description")
		}
		return &node{kind: kindPresent, attribute: attr}, nil
	case ber.Tag(ldap.FilterSubstrings):
		return substringsNodeFromPacket(packet)
	default:
		return nil, fmt.Errorf("filterexpr: unsupported filter type (tag %d)", packet.Tag)
	}
}

func twoStringChildren(packet *ber.Packet) (string, string, error) {
	if len(packet.Children) != 2 {
		return "", "", fmt.Errorf("filterexpr: expected 2 children, got %d", len(packet.Children))
	}
	attr, ok := packet.Children[0].Value.(string)
	if !ok {
		return "", "", fmt.Errorf("filterexpr: attribute description is not a string")
	}
	value, ok := packet.Children[1].Value.(string)
	if !ok {
		return "", "", fmt.Errorf("filterexpr: condition value is not a string")
	}
	return attr, value, nil
}

func substringsNodeFromPacket(packet *ber.Packet) (*node, error) {
	if len(packet.Children) != 2 {
		return nil, fmt.Errorf("filterexpr: substrings filter expects 2 children, got %d", len(packet.Children))
	}
	attr, ok := packet.Children[0].Value.(string)
	if !ok {
		return nil, fmt.Errorf("filterexpr: substrings attribute description is not a string")
	}
	n := &node{kind: kindSubstrings, attribute: attr}
	for _, seg := range packet.Children[1].Children {
		text, ok := seg.Value.(string)
		if !ok {
			return nil, fmt.Errorf("filterexpr: substring segment is not a string")
		}
		var k substringKind
		switch seg.Tag {
		case 0:
			k = substringInitial
		case 1:
			k = substringAny
		case 2:
			k = substringFinal
		default:
			return nil, fmt.Errorf("filterexpr: unknown substring segment tag %d", seg.Tag)
		}
		n.substrings = append(n.substrings, substringSegment{kind: k, text: text})
	}
	return n, nil
}
