// Package optimizer implements spec.md §4.D: per-rule pattern reordering by
// a selectivity cost model, dead-rule filtering, and hint-only batching.
package optimizer

import (
	"sort"

	"github.com/rdfreason/reasoner/internal/compiler"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/schema"
	"github.com/rdfreason/reasoner/internal/telemetry"
	"github.com/rdfreason/reasoner/internal/term"
)

// Stats is the optional data-statistics input; a nil *Stats falls back to
// the fixed cost model entirely.
type Stats struct {
	PredicateCounts map[string]int
	TotalTriples    int
}

// PlacedCondition attaches a condition to the body index after which every
// variable it reads has been bound, per spec.md §4.D ("conditions are
// placed immediately after the latest pattern that binds all their variables").
type PlacedCondition struct {
	Condition rule.Condition
	AfterIndex int // -1 only when the rule has no body patterns; a condition reading no variables is placed at 0
}

// Plan is the reordered execution plan the delta computation and evaluator
// consume in place of a Rule's raw Body/Conditions.
type Plan struct {
	Rule       rule.Rule
	Order      []term.Pattern // Rule.Body reordered
	OrderIndex []int          // Order[i] came from Rule.Body[OrderIndex[i]]
	Conditions []PlacedCondition
}

// Batch groups rules sharing a head predicate, a pure hint that never
// changes results.
type Batch struct {
	HeadPredicate string
	RuleNames     []string
}

// Optimize reorders crs.ActiveRules() and computes batches. Dead rules (per
// compiler.CompiledRuleSet's construction, every retained rule already
// passed its own or a specialized sibling's applicability predicate) are not
// re-filtered here — Filter is provided separately for callers operating on
// a raw rule slice instead of a CompiledRuleSet.
func Optimize(crs *compiler.CompiledRuleSet, stats *Stats, tr *telemetry.Tracer) ([]Plan, []Batch) {
	var plans []Plan
	var batches []Batch
	_ = tr.Span(telemetry.OptimizeSpan, map[string]any{"rules": len(crs.Generic) + len(crs.Specialized)}, func() (map[string]any, error) {
		active := crs.ActiveRules()
		plans = make([]Plan, len(active))
		for i, r := range active {
			plans[i] = reorder(r, stats)
		}
		batches = batchByHeadPredicate(active)
		return map[string]any{"plans": len(plans), "batches": len(batches)}, nil
	})
	tr.Emit(telemetry.OptimizeComplete, map[string]any{"plans": len(plans)})
	return plans, batches
}

// Filter drops dead rules: a rule whose own applicability predicate is false
// and which has no applicable specialized sibling in specializedSiblings.
func Filter(rules []rule.Rule, specializedSiblings map[string][]rule.Rule, info *schema.Info) []rule.Rule {
	out := make([]rule.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Applicable(info) || len(specializedSiblings[r.Name]) > 0 {
			out = append(out, r)
		}
	}
	return out
}

func reorder(r rule.Rule, stats *Stats) Plan {
	n := len(r.Body)
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	bound := map[term.Variable]bool{}
	order := make([]term.Pattern, 0, n)
	orderIndex := make([]int, 0, n)

	for len(remaining) > 0 {
		bestPos, bestIdx, bestSel := -1, -1, 0.0
		for pos, idx := range remaining {
			sel := selectivity(r.Body[idx], bound, stats)
			if bestPos == -1 || sel < bestSel {
				bestPos, bestIdx, bestSel = pos, idx, sel
			}
		}
		chosen := r.Body[bestIdx]
		order = append(order, chosen)
		orderIndex = append(orderIndex, bestIdx)
		for _, v := range term.Variables(chosen) {
			bound[v] = true
		}
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	placed := make([]PlacedCondition, len(r.Conditions))
	for i, c := range r.Conditions {
		placed[i] = PlacedCondition{Condition: c, AfterIndex: earliestSatisfyingIndex(c, order)}
	}
	sort.SliceStable(placed, func(i, j int) bool { return placed[i].AfterIndex < placed[j].AfterIndex })

	return Plan{Rule: r, Order: order, OrderIndex: orderIndex, Conditions: placed}
}

func earliestSatisfyingIndex(c rule.Condition, order []term.Pattern) int {
	need := map[term.Variable]bool{}
	for _, v := range c.Variables() {
		need[v] = true
	}
	bound := map[term.Variable]bool{}
	for i, p := range order {
		for _, v := range term.Variables(p) {
			bound[v] = true
		}
		allBound := true
		for v := range need {
			if !bound[v] {
				allBound = false
				break
			}
		}
		if allBound {
			return i
		}
	}
	return len(order) - 1
}

func selectivity(p term.Pattern, bound map[term.Variable]bool, stats *Stats) float64 {
	const base = 1.0
	sel := base

	if iri, ok := p.P.(term.IRI); ok {
		if stats != nil && stats.TotalTriples > 0 {
			if cnt, ok := stats.PredicateCounts[string(iri)]; ok {
				sel *= float64(cnt) / float64(stats.TotalTriples)
			} else {
				sel *= 0.1
			}
		} else {
			sel *= 0.1
		}
	}
	if isBound(p.S, bound) {
		sel *= 0.1
	}
	if isBound(p.O, bound) {
		sel *= 0.2
	}
	if isLiteral(p.S) || isLiteral(p.P) || isLiteral(p.O) {
		sel *= 0.01
	}
	return sel
}

func isBound(t term.Term, bound map[term.Variable]bool) bool {
	v, isVar := t.(term.Variable)
	if !isVar {
		return true
	}
	return bound[v]
}

func isLiteral(t term.Term) bool {
	_, ok := t.(term.Literal)
	return ok
}

func batchByHeadPredicate(rules []rule.Rule) []Batch {
	index := map[string]*Batch{}
	var order []string
	for _, r := range rules {
		key := ""
		if iri, ok := r.Head.P.(term.IRI); ok {
			key = string(iri)
		}
		b, ok := index[key]
		if !ok {
			b = &Batch{HeadPredicate: key}
			index[key] = b
			order = append(order, key)
		}
		b.RuleNames = append(b.RuleNames, r.Name)
	}
	out := make([]Batch, 0, len(order))
	for _, k := range order {
		out = append(out, *index[k])
	}
	return out
}
