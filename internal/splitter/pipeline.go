// Package splitter implements the translation pipeline and the
// dispatcher/sink: the two halves of the component design that sit on
// top of the router and the LDIF reader.
package splitter

import (
	"github.com/buildbarn/bb-split-ldif/internal/dn"
	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
	"github.com/buildbarn/bb-split-ldif/internal/router"
)

// Translated is the translation pipeline's per-entry output: a
// parsed entry, its parsed DN (or a DN parse failure), and the
// routing decision computed for it.
type Translated struct {
	Entry    *ldifio.Entry
	DN       dn.DN
	Decision router.Decision
	DNError  error
}

// TranslateFunc wraps a Router into the ldifio.TranslateFunc contract
// (component D): pure with respect to the entry, touches only the
// parent map and the fewest-entries counters owned by r, and never
// performs I/O.
func TranslateFunc(r *router.Router) ldifio.TranslateFunc {
	return func(entry *ldifio.Entry) interface{} {
		parsed, err := dn.Parse(entry.DN)
		if err != nil {
			return Translated{Entry: entry, DNError: err}
		}
		return Translated{
			Entry:    entry,
			DN:       parsed,
			Decision: r.Route(entry, parsed),
		}
	}
}
