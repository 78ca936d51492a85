// Package rederive implements spec.md §4.K: forward re-derivation, the step
// that decides — among the facts internal/trace flagged as potentially
// invalid — which ones still hold after a deletion, because some other
// combination of surviving facts still derives them.
//
// Per spec.md §9's resolved open question, deletion under cyclic support
// uses greatest-fixpoint semantics only: every candidate starts assumed
// kept, and a candidate is dropped only when nothing (including other still-
// assumed-kept candidates) can derive it. Iterating removal to a fixpoint
// this way preserves genuinely self-supporting cycles instead of collapsing
// them, which is the behavior greatest-fixpoint deletion is named for.
package rederive

import (
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/match"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

// Result is the outcome of resolving one deletion's candidate set.
type Result struct {
	Closure fact.Set
	Kept    []term.Triple // candidates that survive the deletion
	Deleted []term.Triple // deletedFact plus every candidate that did not survive
}

// Resolve partitions potentiallyInvalid (spec.md §4.J's output) into kept
// and deleted, given that deletedFact itself is being removed from closure.
func Resolve(closure fact.Set, rules []rule.Rule, deletedFact term.Triple, potentiallyInvalid []term.Triple) Result {
	candidateSet := map[term.Triple]bool{}
	for _, f := range potentiallyInvalid {
		if !f.Equal(deletedFact) {
			candidateSet[f] = true
		}
	}
	candidates := make([]term.Triple, 0, len(candidateSet))
	for f := range candidateSet {
		candidates = append(candidates, f)
	}

	var baseTriples []term.Triple
	for _, f := range closure.Slice() {
		if f.Equal(deletedFact) || candidateSet[f] {
			continue
		}
		baseTriples = append(baseTriples, f)
	}
	base := fact.New(baseTriples...)

	keep := map[term.Triple]bool{}
	for _, f := range candidates {
		keep[f] = true
	}

	for changed := true; changed; {
		changed = false
		support := supportSet(base, candidates, keep)
		for _, f := range candidates {
			if !keep[f] {
				continue
			}
			if !CanDerive(rules, support, f) {
				keep[f] = false
				changed = true
			}
		}
	}

	var keptList, deletedList []term.Triple
	for _, f := range candidates {
		if keep[f] {
			keptList = append(keptList, f)
		} else {
			deletedList = append(deletedList, f)
		}
	}
	deletedList = append(deletedList, deletedFact)

	return Result{
		Closure: fact.With(base, keptList...),
		Kept:    keptList,
		Deleted: deletedList,
	}
}

func supportSet(base fact.Set, candidates []term.Triple, keep map[term.Triple]bool) fact.Set {
	kept := make([]term.Triple, 0, len(candidates))
	for _, f := range candidates {
		if keep[f] {
			kept = append(kept, f)
		}
	}
	return fact.With(base, kept...)
}

// CanDerive reports whether any rule, joined entirely against s, instantiates
// a head equal to target. This realizes spec's can_rederive? single-step
// test; Resolve uses it as the per-iteration test of its greatest-fixpoint
// loop, and pkg/reasoner exposes it directly as CanRederive.
func CanDerive(rules []rule.Rule, s fact.Set, target term.Triple) bool {
	for _, r := range rules {
		if deriveHead(r, s, 0, rule.Binding{}, target) {
			return true
		}
	}
	return false
}

func deriveHead(r rule.Rule, s fact.Set, step int, b rule.Binding, target term.Triple) bool {
	if step == len(r.Body) {
		if !r.EvaluateConditions(b) {
			return false
		}
		head := r.Substitute(r.Head, b)
		return head.Ground() && head.Equal(target)
	}
	for _, next := range match.FilterMatching(s, r.Body[step], b) {
		if deriveHead(r, s, step+1, next, target) {
			return true
		}
	}
	return false
}
