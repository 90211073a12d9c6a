// Package dn implements distinguished name parsing and the
// canonicalization rules the router strategies depend on: equality,
// ancestry under a split base, and extraction of the relative
// component immediately below that base.
package dn

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// AttributeValue is one type=value pair of an RDN.
type AttributeValue struct {
	Type  string
	Value string
}

// RDN is a relative distinguished name: a set of attribute-value
// pairs joined by "+" in the textual form.
type RDN struct {
	Attributes []AttributeValue
}

// DN is an ordered sequence of RDNs, most specific first, matching
// the convention of github.com/go-ldap/ldap/v3: for
// "uid=alice,ou=People,dc=example,dc=com", RDNs[0] is "uid=alice" and
// RDNs[len-1] is "dc=com".
type DN struct {
	RDNs []RDN
}

// Parse parses the textual form of a DN per RFC 4514, using
// github.com/go-ldap/ldap/v3 for the low-level escaping/grammar and
// applying the canonicalization rules of this package on top.
func Parse(text string) (DN, error) {
	parsed, err := ldap.ParseDN(text)
	if err != nil {
		return DN{}, err
	}
	return fromLDAP(parsed), nil
}

func fromLDAP(parsed *ldap.DN) DN {
	rdns := make([]RDN, 0, len(parsed.RDNs))
	for _, r := range parsed.RDNs {
		attrs := make([]AttributeValue, 0, len(r.Attributes))
		for _, a := range r.Attributes {
			attrs = append(attrs, AttributeValue{Type: a.Type, Value: a.Value})
		}
		rdns = append(rdns, RDN{Attributes: attrs})
	}
	return DN{RDNs: rdns}
}

// normalizeValue applies the default equality rule: case-insensitive
// comparison of ASCII with runs of whitespace folded to a single
// space, and leading/trailing whitespace trimmed.
func normalizeValue(v string) string {
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
	return strings.ToLower(b.String())
}

// canonicalAttribute returns a stable "type=value" form for one
// attribute-value pair: the type is folded to lowercase, the value is
// normalized per the default equality rule.
func canonicalAttribute(a AttributeValue) string {
	return strings.ToLower(a.Type) + "=" + normalizeValue(a.Value)
}

// CanonicalString renders the RDN's canonical, order-stable form,
// suitable as a parent-map key component. Multi-valued RDNs
// (joined with "+" in the source) are sorted so that two
// syntactically different but semantically identical RDNs ("a=1+b=2"
// vs. "b=2+a=1") canonicalize identically.
func (r RDN) CanonicalString() string {
	parts := make([]string, 0, len(r.Attributes))
	for _, a := range r.Attributes {
		parts = append(parts, canonicalAttribute(a))
	}
	sortStrings(parts)
	return strings.Join(parts, "+")
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// CanonicalString renders the DN's canonical, process-stable form: a
// "," join of canonical RDNs, most specific first. This is the key
// used by the parent map and must remain stable across runs.
func (d DN) CanonicalString() string {
	parts := make([]string, 0, len(d.RDNs))
	for _, r := range d.RDNs {
		parts = append(parts, r.CanonicalString())
	}
	return strings.Join(parts, ",")
}

// Equal reports whether two DNs are equal under canonicalization.
func (d DN) Equal(other DN) bool {
	return d.CanonicalString() == other.CanonicalString()
}

// IsBelow reports whether d is a strict descendant of ancestor: d has
// ancestor as a trailing suffix of RDNs and is strictly longer.
func (d DN) IsBelow(ancestor DN) bool {
	if len(d.RDNs) <= len(ancestor.RDNs) {
		return false
	}
	offset := len(d.RDNs) - len(ancestor.RDNs)
	for i, r := range ancestor.RDNs {
		if r.CanonicalString() != d.RDNs[offset+i].CanonicalString() {
			return false
		}
	}
	return true
}

// Depth returns how many RDNs separate d from base. Depth is 0 if d
// equals base, negative if d is not below base (by convention -1),
// and >=1 if d is strictly below base.
func (d DN) Depth(base DN) int {
	if d.Equal(base) {
		return 0
	}
	if !d.IsBelow(base) {
		return -1
	}
	return len(d.RDNs) - len(base.RDNs)
}

// RelativeComponent returns the RDN immediately below base in d's
// ancestry chain, i.e. the RDN an entry one level below base would
// carry if it were an ancestor of d. ok is false if d is not strictly
// below base.
func (d DN) RelativeComponent(base DN) (RDN, bool) {
	depth := d.Depth(base)
	if depth <= 0 {
		return RDN{}, false
	}
	// RDNs[0] is most specific; the RDN one level below base sits at
	// index depth-1.
	return d.RDNs[depth-1], true
}

// AncestorOneBelowBase returns the DN of the ancestor of d that sits
// exactly one level below base: base plus that single RDN. ok is
// false under the same condition as RelativeComponent.
func (d DN) AncestorOneBelowBase(base DN) (DN, bool) {
	rdn, ok := d.RelativeComponent(base)
	if !ok {
		return DN{}, false
	}
	rdns := make([]RDN, 0, len(base.RDNs)+1)
	rdns = append(rdns, rdn)
	rdns = append(rdns, base.RDNs...)
	return DN{RDNs: rdns}, true
}

// Parent returns d with its leading (most specific) RDN removed. ok
// is false if d has no parent (a single-RDN DN).
func (d DN) Parent() (DN, bool) {
	if len(d.RDNs) <= 1 {
		return DN{}, false
	}
	return DN{RDNs: d.RDNs[1:]}, true
}

// String renders d using its original (non-normalized) attribute
// types and values, matching RFC 4514 textual form.
func (d DN) String() string {
	rdnStrings := make([]string, 0, len(d.RDNs))
	for _, r := range d.RDNs {
		attrStrings := make([]string, 0, len(r.Attributes))
		for _, a := range r.Attributes {
			attrStrings = append(attrStrings, a.Type+"="+a.Value)
		}
		rdnStrings = append(rdnStrings, strings.Join(attrStrings, "+"))
	}
	return strings.Join(rdnStrings, ",")
}
