// Package delta implements spec.md §4.F: the semi-naive decomposition that
// turns one round's new facts (Δ) into the set of head instantiations a rule
// derives that weren't already known, without rescanning the full fact set
// from scratch on every iteration.
package delta

import (
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/match"
	"github.com/rdfreason/reasoner/internal/optimizer"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

// Options configures a single ApplyRuleDelta call.
type Options struct {
	// MaxDerivations soft-caps the number of new head instantiations this
	// call returns; 0 means unbounded. Enumeration stops as soon as the cap
	// is hit, so it is a true short-circuit, not a post-hoc truncation.
	MaxDerivations int
}

// ApplyRuleDelta computes every new fact plan.Rule derives given the current
// closure f, the facts newly added this round delta (delta must be a subset
// of f), and existing (the facts already known, checked for deduplication —
// ordinarily existing == f).
//
// For each configured delta position i (in plan.Order's execution order),
// body patterns before i join against f∖delta, position i joins against
// delta only, and patterns after i join against the full f. This guarantees
// every derivation touching delta is produced by at least one delta
// position, and a single pass over all positions produces each new fact
// exactly once after deduplication, regardless of how many facts delta
// holds.
func ApplyRuleDelta(plan optimizer.Plan, f, delta, existing fact.Set, opts Options) []term.Triple {
	r := plan.Rule
	notDelta := fact.Diff(f, delta)

	positions := resolvedPositions(r, plan)
	if len(positions) == 0 {
		return nil
	}

	seen := map[term.Triple]struct{}{}
	var out []term.Triple
	budget := opts.MaxDerivations

	for _, deltaPos := range positions {
		sources := make([]fact.Set, len(plan.Order))
		for i := range plan.Order {
			switch {
			case i < deltaPos:
				sources[i] = notDelta
			case i == deltaPos:
				sources[i] = delta
			default:
				sources[i] = f
			}
		}

		exhausted := enumerate(r, plan, sources, 0, rule.Binding{}, func(b rule.Binding) bool {
			head := r.Substitute(r.Head, b)
			if !head.Ground() {
				return true
			}
			if existing.Has(head) || hasSeen(seen, head) {
				return true
			}
			seen[head] = struct{}{}
			out = append(out, head)
			if budget > 0 && len(out) >= budget {
				return false
			}
			return true
		})
		if !exhausted {
			break
		}
	}

	return out
}

func hasSeen(seen map[term.Triple]struct{}, t term.Triple) bool {
	_, ok := seen[t]
	return ok
}

// resolvedPositions maps r's configured delta positions (original body
// indices) onto execution-order positions (indices into plan.Order).
func resolvedPositions(r rule.Rule, plan optimizer.Plan) []int {
	want := map[int]bool{}
	for _, idx := range r.DeltaPositions() {
		want[idx] = true
	}
	var out []int
	for execPos, origIdx := range plan.OrderIndex {
		if want[origIdx] {
			out = append(out, execPos)
		}
	}
	return out
}

// enumerate joins plan.Order left to right starting at step, applying any
// condition placed immediately after the pattern just joined. visit is
// called for every complete binding; it returns false to request an early
// stop, which enumerate propagates up as its own false return.
func enumerate(r rule.Rule, plan optimizer.Plan, sources []fact.Set, step int, base rule.Binding, visit func(rule.Binding) bool) bool {
	if step == len(plan.Order) {
		if !r.EvaluateConditions(base) {
			return true
		}
		return visit(base)
	}

	pattern := plan.Order[step]
	for _, b := range match.FilterMatching(sources[step], pattern, base) {
		if !conditionsUpTo(r, plan, step, b) {
			continue
		}
		if !enumerate(r, plan, sources, step+1, b, visit) {
			return false
		}
	}
	return true
}

// conditionsUpTo evaluates every condition placed at or before step under b,
// the same early-filtering discipline the optimizer's plan exists for.
// Conditions are safe to re-check on every step (Eval is vacuously true
// until its variables are bound), so this simply checks everything due by
// step rather than tracking which conditions fired earlier.
func conditionsUpTo(r rule.Rule, plan optimizer.Plan, step int, b rule.Binding) bool {
	for _, pc := range plan.Conditions {
		if pc.AfterIndex <= step && !pc.Condition.Eval(b) {
			return false
		}
	}
	return true
}
