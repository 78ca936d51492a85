// Package tbox implements spec.md §4.L: a cached class-hierarchy closure
// over rdfs:subClassOf, tolerant of cycles in the asserted graph, plus the
// reasoning-status lifecycle a caller polls to know whether a closure is
// fresh, in progress, or stale relative to the schema that produced it.
package tbox

import (
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/term"
	"github.com/rdfreason/reasoner/internal/vocab"
)

// Hierarchy is the precomputed transitive closure of rdfs:subClassOf,
// queryable in both directions without recomputation.
type Hierarchy struct {
	ancestors   map[term.IRI]map[term.IRI]bool
	descendants map[term.IRI]map[term.IRI]bool
}

// BuildHierarchy scans facts for rdfs:subClassOf triples between IRIs and
// computes the transitive closure; a class is its own ancestor only through
// a cycle or an asserted self-loop. A cycle (c1 subClassOf c2
// subClassOf c1) makes every class in the cycle an ancestor and descendant
// of every other — correct per RDFS semantics, where a subClassOf cycle
// means the classes are equivalent — and does not loop forever, since each
// traversal tracks its own visited set.
func BuildHierarchy(facts fact.Set) *Hierarchy {
	direct := map[term.IRI]map[term.IRI]bool{} // direct[c] = immediate superclasses
	classes := map[term.IRI]bool{}
	for _, f := range facts.ByPredicate(vocab.RDFSSubClassOf) {
		sub, sok := f.S.(term.IRI)
		super, pok := f.O.(term.IRI)
		if !sok || !pok {
			continue
		}
		if direct[sub] == nil {
			direct[sub] = map[term.IRI]bool{}
		}
		direct[sub][super] = true
		classes[sub] = true
		classes[super] = true
	}

	h := &Hierarchy{
		ancestors:   map[term.IRI]map[term.IRI]bool{},
		descendants: map[term.IRI]map[term.IRI]bool{},
	}
	for c := range classes {
		h.ancestors[c] = closure(c, direct, map[term.IRI]bool{})
	}
	for c, ancs := range h.ancestors {
		for a := range ancs {
			if h.descendants[a] == nil {
				h.descendants[a] = map[term.IRI]bool{}
			}
			h.descendants[a][c] = true
		}
	}
	return h
}

func closure(start term.IRI, direct map[term.IRI]map[term.IRI]bool, visiting map[term.IRI]bool) map[term.IRI]bool {
	if visiting[start] {
		return map[term.IRI]bool{}
	}
	visiting[start] = true
	out := map[term.IRI]bool{}
	for super := range direct[start] {
		out[super] = true
		for a := range closure(super, direct, visiting) {
			out[a] = true
		}
	}
	return out
}

// Ancestors returns every class c is (transitively) a subClassOf, in no
// particular order.
func (h *Hierarchy) Ancestors(c term.IRI) []term.IRI {
	return keys(h.ancestors[c])
}

// Descendants returns every class that is (transitively) a subClassOf c.
func (h *Hierarchy) Descendants(c term.IRI) []term.IRI {
	return keys(h.descendants[c])
}

// IsSubClassOf reports whether sub is a (transitive, possibly reflexive via
// a cycle) subclass of super.
func (h *Hierarchy) IsSubClassOf(sub, super term.IRI) bool {
	return h.ancestors[sub][super]
}

func keys(m map[term.IRI]bool) []term.IRI {
	out := make([]term.IRI, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
