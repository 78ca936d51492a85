// Package incremental implements spec.md §4.I: folding one newly asserted
// fact into an already-materialized closure without recomputing it from
// scratch, plus a dry-run variant that reports what would change without
// committing anything.
package incremental

import (
	"context"

	"github.com/rdfreason/reasoner/internal/derivedstore"
	"github.com/rdfreason/reasoner/internal/evaluator"
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/optimizer"
	"github.com/rdfreason/reasoner/internal/telemetry"
	"github.com/rdfreason/reasoner/internal/term"
)

// Result reports what AddIncremental (or PreviewAddition) did: the full
// closure after folding newFact in, the facts newly derived as a
// consequence (not counting newFact itself), and which rule produced each.
type Result struct {
	Closure       fact.Set
	AlreadyKnown  bool
	NewlyDerived  []term.Triple
	Provenance    map[term.Triple]string
	Iterations    int
}

// AddIncremental folds newFact into closure and runs the fixpoint starting
// from {newFact} as the only initial delta — not the whole closure, which is
// what makes this cheaper than a full Materialize call. When store is
// non-nil, every newly derived fact is persisted with its producing rule
// name as provenance.
func AddIncremental(ctx context.Context, plans []optimizer.Plan, closure fact.Set, newFact term.Triple, store *derivedstore.Store, opts evaluator.Options, tr *telemetry.Tracer) (Result, error) {
	res, err := compute(ctx, plans, closure, newFact, opts, tr)
	if err != nil || res.AlreadyKnown {
		return res, err
	}

	if store != nil {
		// newFact itself is explicit, not derived — only res.NewlyDerived
		// (rule-produced consequences) belong in the derived-fact store
		// (spec.md's explicit/derived partition, component H).
		for _, f := range res.NewlyDerived {
			ruleName := res.Provenance[f]
			if err := store.InsertDerived(ctx, f, ruleName); err != nil {
				return Result{}, err
			}
		}
	}

	return res, nil
}

// PreviewAddition runs the same computation as AddIncremental but never
// touches store, letting a caller inspect the consequences of an addition
// before deciding to commit it.
func PreviewAddition(ctx context.Context, plans []optimizer.Plan, closure fact.Set, newFact term.Triple, opts evaluator.Options, tr *telemetry.Tracer) (Result, error) {
	return compute(ctx, plans, closure, newFact, opts, tr)
}

func compute(ctx context.Context, plans []optimizer.Plan, closure fact.Set, newFact term.Triple, opts evaluator.Options, tr *telemetry.Tracer) (Result, error) {
	if closure.Has(newFact) {
		return Result{Closure: closure, AlreadyKnown: true}, nil
	}

	withNew := fact.With(closure, newFact)
	seed := fact.New(newFact)

	evalRes, err := evaluator.RunFrom(ctx, plans, withNew, seed, opts, tr)
	if err != nil {
		return Result{}, err
	}

	newlyDerived := fact.Diff(evalRes.Closure, withNew).Slice()
	return Result{
		Closure:      evalRes.Closure,
		NewlyDerived: newlyDerived,
		Provenance:   evalRes.Provenance,
		Iterations:   evalRes.Iterations,
	}, nil
}
