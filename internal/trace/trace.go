// Package trace implements spec.md §4.J: backward trace, the step that
// finds every derived fact that might depend on a fact about to be deleted.
// It works by rule-structure unification rather than stored provenance
// alone, so it stays correct even for facts derived before provenance
// tracking existed or facts this reasoner re-derives without it.
package trace

import (
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/match"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

// Options configures a single PotentiallyInvalid call. MaxDepth bounds how
// many rule-application hops the trace follows outward from the deleted
// fact; 0 means unbounded (the visited-set dedup still guarantees
// termination, since the closure is finite).
type Options struct {
	MaxDepth int
}

// PotentiallyInvalid returns every fact reachable from deleted by
// repeatedly asking "is there a rule and a body position such that deleted
// (or something already found) could have filled that position, with every
// other position satisfied by something in closure?" — and, if so, adding
// the resulting head instantiation to the frontier. The result is an
// over-approximation by design (spec.md §4.J: "potentially invalid"): it
// includes facts that might survive rederivation through an unrelated
// support, which internal/rederive resolves. closure carries no
// explicit/derived partition, so an explicitly asserted fact that some rule
// also produces is returned like any derived one.
func PotentiallyInvalid(closure fact.Set, rules []rule.Rule, deleted term.Triple, opts Options) []term.Triple {
	visited := map[term.Triple]bool{deleted: true}
	frontier := []term.Triple{deleted}
	var result []term.Triple

	depth := 0
	for len(frontier) > 0 {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			break
		}
		var next []term.Triple
		for _, f := range frontier {
			for _, r := range rules {
				for pos := range r.Body {
					for _, head := range candidateHeads(r, closure, pos, f) {
						if visited[head] {
							continue
						}
						visited[head] = true
						result = append(result, head)
						next = append(next, head)
					}
				}
			}
		}
		frontier = next
		depth++
	}

	return result
}

// candidateHeads instantiates r's head for every binding in which body
// position pinnedPos matches pinned and every other body position matches
// some fact in closure.
func candidateHeads(r rule.Rule, closure fact.Set, pinnedPos int, pinned term.Triple) []term.Triple {
	pinnedBindings, ok := match.Match(r.Body[pinnedPos], pinned, rule.Binding{})
	if !ok {
		return nil
	}

	order := make([]int, 0, len(r.Body)-1)
	for i := range r.Body {
		if i != pinnedPos {
			order = append(order, i)
		}
	}

	var out []term.Triple
	var join func(step int, b rule.Binding)
	join = func(step int, b rule.Binding) {
		if step == len(order) {
			if !r.EvaluateConditions(b) {
				return
			}
			head := r.Substitute(r.Head, b)
			if head.Ground() {
				out = append(out, head)
			}
			return
		}
		pattern := r.Body[order[step]]
		for _, next := range match.FilterMatching(closure, pattern, b) {
			join(step+1, next)
		}
	}
	join(0, pinnedBindings)

	return out
}
