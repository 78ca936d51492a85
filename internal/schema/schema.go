// Package schema extracts TBox features from a fact set into a SchemaInfo,
// the record rule applicability predicates and the compiler consult.
package schema

import "github.com/google/uuid"

// Info records the boolean and list-valued TBox features spec.md §3 names.
// Property lists are capped at Cap entries each; Version changes on every
// re-extraction so compiled rule sets can detect staleness (compare against
// compiler.CompiledRuleSet.SchemaVersion).
type Info struct {
	HasSubclass      bool
	HasSubproperty   bool
	HasDomain        bool
	HasRange         bool
	HasSameAs        bool
	HasRestrictions  bool

	TransitiveProperties        []string
	SymmetricProperties         []string
	FunctionalProperties        []string
	InverseFunctionalProperties []string
	InversePairs                []InversePair

	Version string
}

// InversePair is an asserted owl:inverseOf relationship between two properties.
type InversePair struct {
	A, B string
}

// Cap bounds each property list to guard against pathological TBoxes.
const Cap = 10000

// NewEmpty returns a zero-valued Info stamped with a fresh version — the
// starting point Extract accumulates into.
func NewEmpty() *Info {
	return &Info{Version: uuid.NewString()}
}

// Restamp refreshes the version stamp, used after extraction completes so
// callers can tell two Info values apart even if their contents coincide.
func (i *Info) Restamp() {
	i.Version = uuid.NewString()
}

func appendCapped(list []string, v string) []string {
	if len(list) >= Cap {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
