package match

import (
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

// Match unifies pattern against a ground fact, extending base. Variables
// bind positionally; a variable re-encountered within the same pattern (or
// already bound in base, e.g. from an earlier body pattern) must bind
// consistently. Returns the extended binding and true on success.
func Match(pattern term.Pattern, f term.Triple, base rule.Binding) (rule.Binding, bool) {
	out := make(rule.Binding, len(base)+3)
	for k, v := range base {
		out[k] = v
	}
	if !unifyTerm(pattern.S, f.S, out) {
		return nil, false
	}
	if !unifyTerm(pattern.P, f.P, out) {
		return nil, false
	}
	if !unifyTerm(pattern.O, f.O, out) {
		return nil, false
	}
	return out, true
}

func unifyTerm(patternTerm, factTerm term.Term, b rule.Binding) bool {
	v, isVar := patternTerm.(term.Variable)
	if !isVar {
		return patternTerm.Equal(factTerm)
	}
	if bound, ok := b[v]; ok {
		return bound.Equal(factTerm)
	}
	b[v] = factTerm
	return true
}

// FilterMatching is the only operation the evaluator uses against a fact
// set: every fact matching pattern under base, paired with its extended
// binding. It narrows via the predicate index first so a bound predicate
// position doesn't force a full scan (spec.md §4.E).
func FilterMatching(facts fact.Set, pattern term.Pattern, base rule.Binding) []rule.Binding {
	resolvedPred := pattern.P
	if v, ok := pattern.P.(term.Variable); ok {
		if bound, ok := base[v]; ok {
			resolvedPred = bound
		}
	}
	candidates := facts.ByPredicate(resolvedPred)
	out := make([]rule.Binding, 0, len(candidates))
	for _, f := range candidates {
		if b, ok := Match(pattern, f, base); ok {
			out = append(out, b)
		}
	}
	return out
}
