// Package fact provides the uniform-iteration-cost fact collection the
// matcher and evaluator share (spec.md §4.E): a set of ground triples,
// indexed by predicate so filter_matching doesn't degrade to a full scan on
// every join step.
package fact

import "github.com/rdfreason/reasoner/internal/term"

// Set is an immutable-by-convention collection of ground triples. Callers
// build a new Set from Union/With rather than mutating one in place, which
// is what lets the evaluator treat F and Δ as stable snapshots mid-iteration.
type Set struct {
	all     map[term.Triple]struct{}
	byPred  map[term.Term][]term.Triple
}

// New builds a Set from a slice of triples, deduplicating.
func New(triples ...term.Triple) Set {
	s := Set{all: make(map[term.Triple]struct{}, len(triples)), byPred: make(map[term.Term][]term.Triple)}
	for _, t := range triples {
		s.add(t)
	}
	return s
}

func (s *Set) add(t term.Triple) {
	if _, ok := s.all[t]; ok {
		return
	}
	s.all[t] = struct{}{}
	s.byPred[t.P] = append(s.byPred[t.P], t)
}

// Len returns the number of distinct triples.
func (s Set) Len() int { return len(s.all) }

// Has reports set membership.
func (s Set) Has(t term.Triple) bool {
	_, ok := s.all[t]
	return ok
}

// Slice returns every triple, order unspecified.
func (s Set) Slice() []term.Triple {
	out := make([]term.Triple, 0, len(s.all))
	for t := range s.all {
		out = append(out, t)
	}
	return out
}

// ByPredicate returns the triples whose predicate position equals p, or
// every triple if p is not a ground IRI (a variable predicate can't narrow
// the index).
func (s Set) ByPredicate(p term.Term) []term.Triple {
	if iri, ok := p.(term.IRI); ok {
		return s.byPred[iri]
	}
	return s.Slice()
}

// Union returns a new Set containing every triple from s and other.
func Union(sets ...Set) Set {
	out := New()
	for _, s := range sets {
		for t := range s.all {
			out.add(t)
		}
	}
	return out
}

// Diff returns a new Set containing triples in s but not in other (used to
// compute F∖Δ in the semi-naive decomposition).
func Diff(s, other Set) Set {
	out := New()
	for t := range s.all {
		if !other.Has(t) {
			out.add(t)
		}
	}
	return out
}

// With returns a new Set with additional appended.
func With(s Set, additional ...term.Triple) Set {
	out := New(s.Slice()...)
	for _, t := range additional {
		out.add(t)
	}
	return out
}
