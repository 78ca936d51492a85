// Package evaluator implements spec.md §4.G: the semi-naive fixpoint driver
// that repeatedly applies every active rule's delta computation until no
// rule produces a fact outside the current closure.
package evaluator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rdfreason/reasoner/internal/delta"
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/optimizer"
	"github.com/rdfreason/reasoner/internal/reasonerr"
	"github.com/rdfreason/reasoner/internal/telemetry"
	"github.com/rdfreason/reasoner/internal/term"
)

// Options configures a single Run. MaxDerivations is forwarded to every
// delta.ApplyRuleDelta call as a per-rule-per-iteration soft cap; MaxIterations
// bounds the fixpoint loop itself (0 means unbounded), guarding against a
// runaway custom rule set. Parallel selects the errgroup-fanned variant,
// which a test in this package checks produces byte-identical results to the
// sequential path for the same input.
type Options struct {
	MaxDerivations int
	MaxIterations  int
	Parallel       bool
}

// Result is the outcome of one Run: the full closure (explicit ∪ every
// derived fact), the number of fixpoint iterations it took, and the rule
// that first produced each newly derived fact (populated only for facts not
// already present in the starting closure).
type Result struct {
	Closure    fact.Set
	Iterations int
	Provenance map[term.Triple]string
}

// Run computes the least fixpoint of plans over the initial fact set facts,
// using semi-naive evaluation: each iteration only re-examines combinations
// touching the previous iteration's new facts (delta), not the whole closure.
// The first iteration treats every fact in facts as new, which is correct
// for materializing from scratch; RunFrom lets a caller that already has a
// closure supply a narrower starting delta instead.
func Run(ctx context.Context, plans []optimizer.Plan, facts fact.Set, opts Options, tr *telemetry.Tracer) (Result, error) {
	return RunFrom(ctx, plans, facts, facts, opts, tr)
}

// RunFrom computes the least fixpoint reachable from closure by repeatedly
// applying plans, seeding the first iteration's delta with startDelta rather
// than all of closure. startDelta must be a subset of closure (the caller's
// incremental-addition and forward-rederivation entry points pass a single
// new or previously-derived fact; full materialization passes closure itself
// via Run).
func RunFrom(ctx context.Context, plans []optimizer.Plan, closure, startDelta fact.Set, opts Options, tr *telemetry.Tracer) (Result, error) {
	current := startDelta
	iterations := 0
	provenance := map[term.Triple]string{}

	for {
		if opts.MaxIterations > 0 && iterations >= opts.MaxIterations {
			return Result{}, reasonerr.New(reasonerr.MaxIterationsExceeded, "evaluator.RunFrom", nil,
				"fixpoint did not converge within %d iterations", opts.MaxIterations)
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		var round []perRuleFacts
		var err error
		if opts.Parallel {
			round, err = iterateParallel(ctx, plans, closure, current, opts.MaxDerivations)
		} else {
			round = iterateSequential(plans, closure, current, opts.MaxDerivations)
		}
		if err != nil {
			return Result{}, err
		}

		newFacts := dedupeAgainst(round, closure, provenance)

		iterations++
		tr.Emit(telemetry.MaterializeIteration, map[string]any{
			"iteration":  iterations,
			"new_facts":  len(newFacts),
			"closure_sz": closure.Len(),
		})

		if len(newFacts) == 0 {
			break
		}

		next := fact.With(closure, newFacts...)
		current = fact.Diff(next, closure)
		closure = next
	}

	return Result{Closure: closure, Iterations: iterations, Provenance: provenance}, nil
}

// perRuleFacts pairs one plan's delta-computation output with the rule name
// that produced it, so the caller can attribute provenance after merging
// every plan's results together.
type perRuleFacts struct {
	RuleName string
	Facts    []term.Triple
}

// iterateSequential applies every plan's delta computation against the same
// starting closure and delta, one plan at a time. Every plan sees the same
// snapshot regardless of what an earlier plan in this loop found — a plan
// never observes a sibling's brand-new fact until the following iteration,
// when it has been folded into Δ. That is what makes the result independent
// of plan execution order, and so identical to iterateParallel's (property
// 4): both are computing the same per-iteration function of (closure, Δ),
// just with different scheduling.
func iterateSequential(plans []optimizer.Plan, closure, delt fact.Set, maxDerivations int) []perRuleFacts {
	results := make([]perRuleFacts, len(plans))
	for i, plan := range plans {
		results[i] = perRuleFacts{
			RuleName: plan.Rule.Name,
			Facts:    delta.ApplyRuleDelta(plan, closure, delt, closure, delta.Options{MaxDerivations: maxDerivations}),
		}
	}
	return results
}

// iterateParallel fans the same per-plan computation out across an errgroup.
// Each worker only ever reads closure/delt (both immutable-by-convention
// snapshots) and writes its own results slot, so there is no data race and
// no order-dependence to produce.
func iterateParallel(ctx context.Context, plans []optimizer.Plan, closure, delt fact.Set, maxDerivations int) ([]perRuleFacts, error) {
	results := make([]perRuleFacts, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = perRuleFacts{
				RuleName: plan.Rule.Name,
				Facts:    delta.ApplyRuleDelta(plan, closure, delt, closure, delta.Options{MaxDerivations: maxDerivations}),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// dedupeAgainst flattens per-plan result slices into one ordered, deduped
// slice, skipping anything already present in closure, and records the first
// rule to produce each fact into provenance. The per-plan order is preserved
// (plans[0]'s new facts first, then plans[1]'s not already emitted, and so
// on), which is what lets both callers above produce the exact same slice
// for the exact same (plans, closure, delt) input.
func dedupeAgainst(results []perRuleFacts, closure fact.Set, provenance map[term.Triple]string) []term.Triple {
	seen := map[term.Triple]struct{}{}
	var out []term.Triple
	for _, r := range results {
		for _, t := range r.Facts {
			if _, ok := seen[t]; ok {
				continue
			}
			if closure.Has(t) {
				continue
			}
			seen[t] = struct{}{}
			if _, ok := provenance[t]; !ok {
				provenance[t] = r.RuleName
			}
			out = append(out, t)
		}
	}
	return out
}
