// Package reasoner is the public surface spec.md §6 describes: materialize,
// add_incremental, delete_with_reasoning, preview_addition, and
// can_rederive?, wired on top of the internal compile/optimize/evaluate/
// store/trace/rederive/tbox pipeline. It is the only package outside of
// internal/; its signatures use types from internal/reasonerconfig,
// internal/fact, internal/term and internal/tbox.
package reasoner

import (
	"context"
	"time"

	"github.com/rdfreason/reasoner/internal/compiler"
	"github.com/rdfreason/reasoner/internal/derivedstore"
	"github.com/rdfreason/reasoner/internal/evaluator"
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/incremental"
	"github.com/rdfreason/reasoner/internal/optimizer"
	"github.com/rdfreason/reasoner/internal/reasonerconfig"
	"github.com/rdfreason/reasoner/internal/rederive"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/schema"
	"github.com/rdfreason/reasoner/internal/tbox"
	"github.com/rdfreason/reasoner/internal/telemetry"
	"github.com/rdfreason/reasoner/internal/term"
	"github.com/rdfreason/reasoner/internal/trace"
)

// Stats accompanies every operation's result, mirroring the
// explicit_added/derived_count/iterations/duration shape spec.md §4.I and
// §4.G both ask for.
type Stats struct {
	ExplicitAdded int
	DerivedCount  int
	Iterations    int
	Duration      time.Duration
}

// Options configures materialization and incremental addition: whether to
// fan per-rule delta computation out in parallel, a soft per-rule
// derivation cap, and a hard iteration cap.
type Options struct {
	Parallel       bool
	MaxDerivations int
	MaxIterations  int
}

func (o Options) evaluatorOptions() evaluator.Options {
	return evaluator.Options{Parallel: o.Parallel, MaxDerivations: o.MaxDerivations, MaxIterations: o.MaxIterations}
}

// Reasoner bundles a reasoning configuration, a telemetry sink, a TBox
// status tracker, and (optionally) a derived-fact store, and exposes the
// five operations spec.md §6 names. Like compiler.Registry and
// derivedstore.Store, it is an explicit caller-owned value, never a
// package-level global.
type Reasoner struct {
	cfg     reasonerconfig.Config
	tr      *telemetry.Tracer
	tracker *tbox.Tracker
	store   *derivedstore.Store
}

// New builds a Reasoner for cfg. store may be nil, in which case derived
// facts are never persisted (materialize/add_incremental still return the
// full in-memory closure; only the durable side effect is skipped).
func New(cfg reasonerconfig.Config, store *derivedstore.Store, tr *telemetry.Tracer) (*Reasoner, error) {
	if err := reasonerconfig.Validate(cfg); err != nil {
		return nil, err
	}
	return &Reasoner{cfg: cfg, tr: tr, tracker: tbox.NewTracker(), store: store}, nil
}

// Status reports the current reasoning-status lifecycle state (spec.md §3
// ReasoningStatus, realized by internal/tbox.Tracker).
func (r *Reasoner) Status() tbox.Status { return r.tracker.Status() }

// compile runs schema extraction, compilation, and optimization for the
// current config against facts, returning the plans the evaluator consumes
// alongside the schema version they were compiled against. It does not
// itself touch the status tracker — callers that drive a full
// materialization lifecycle (Materialize, DeleteWithReasoning) wrap it with
// their own Transition/Fail calls; PreviewAddition and AddIncremental's
// internal re-compile are read-only with respect to status.
func (r *Reasoner) compile(facts []term.Triple) ([]optimizer.Plan, string, error) {
	info, err := schema.Extract(facts, r.tr)
	if err != nil {
		return nil, "", err
	}
	crs, err := compiler.Compile(r.cfg, info, compiler.Options{Specialize: true}, r.tr)
	if err != nil {
		return nil, "", err
	}
	plans, _ := optimizer.Optimize(crs, nil, r.tr)
	return plans, info.Version, nil
}

// Materialize computes the full inference closure of initialFacts under the
// Reasoner's configured profile (spec.md §4.G / §6 materialize).
func (r *Reasoner) Materialize(ctx context.Context, initialFacts []term.Triple, opts Options) (fact.Set, Stats, error) {
	start := time.Now()
	if err := r.tracker.Transition(tbox.Compiling); err != nil {
		return fact.Set{}, Stats{}, err
	}
	plans, schemaVersion, err := r.compile(initialFacts)
	if err != nil {
		_ = r.tracker.Fail(err)
		return fact.Set{}, Stats{}, err
	}

	if err := r.tracker.Transition(tbox.Materializing); err != nil {
		return fact.Set{}, Stats{}, err
	}

	var result evaluator.Result
	err = r.tr.Span(telemetry.MaterializeSpan, map[string]any{"facts": len(initialFacts)}, func() (map[string]any, error) {
		base := fact.New(initialFacts...)
		var evalErr error
		result, evalErr = evaluator.Run(ctx, plans, base, opts.evaluatorOptions(), r.tr)
		if evalErr != nil {
			return nil, evalErr
		}
		return map[string]any{"iterations": result.Iterations, "closure_size": result.Closure.Len()}, nil
	})
	if err != nil {
		_ = r.tracker.Fail(err)
		return fact.Set{}, Stats{}, err
	}

	if r.store != nil {
		if err := r.persistDerived(ctx, initialFacts, result); err != nil {
			_ = r.tracker.Fail(err)
			return fact.Set{}, Stats{}, err
		}
	}

	derivedCount := result.Closure.Len() - fact.New(initialFacts...).Len()
	if err := r.tracker.CompleteMaterialization(schemaVersion, len(initialFacts), derivedCount); err != nil {
		return fact.Set{}, Stats{}, err
	}

	return result.Closure, Stats{
		ExplicitAdded: len(initialFacts),
		DerivedCount:  derivedCount,
		Iterations:    result.Iterations,
		Duration:      time.Since(start),
	}, nil
}

// persistDerived records every fact in result.Closure not present in
// initialFacts into the derived store, using result.Provenance for the
// producing rule name (falling back to "unknown" for facts materialized
// before provenance was tracked on this path, which should not happen in
// practice since Materialize always starts from a fresh evaluator.Result).
func (r *Reasoner) persistDerived(ctx context.Context, initialFacts []term.Triple, result evaluator.Result) error {
	explicit := fact.New(initialFacts...)
	for _, f := range result.Closure.Slice() {
		if explicit.Has(f) {
			continue
		}
		ruleName := result.Provenance[f]
		if ruleName == "" {
			ruleName = "unknown"
		}
		if err := r.store.InsertDerived(ctx, f, ruleName); err != nil {
			return err
		}
	}
	return nil
}

// AddIncremental folds newTriples into the current closure without
// recomputing it from scratch (spec.md §4.I / §6 add_incremental). existing
// must be the closure's current contents (explicit ∪ derived).
func (r *Reasoner) AddIncremental(ctx context.Context, newTriples []term.Triple, existing fact.Set, opts Options) (fact.Set, Stats, error) {
	start := time.Now()
	plans, schemaVersion, err := r.compile(existing.Slice())
	if err != nil {
		return fact.Set{}, Stats{}, err
	}

	closure := existing
	added := 0
	totalDerived := 0
	totalIterations := 0
	for _, nt := range newTriples {
		res, err := incremental.AddIncremental(ctx, plans, closure, nt, r.store, opts.evaluatorOptions(), r.tr)
		if err != nil {
			return fact.Set{}, Stats{}, err
		}
		closure = res.Closure
		if !res.AlreadyKnown {
			added++
		}
		totalDerived += len(res.NewlyDerived)
		totalIterations += res.Iterations
	}

	r.tracker.InvalidateIfStale(schemaVersion)
	return closure, Stats{
		ExplicitAdded: added,
		DerivedCount:  totalDerived,
		Iterations:    totalIterations,
		Duration:      time.Since(start),
	}, nil
}

// PreviewAddition reports newTriples together with everything AddIncremental
// would derive from them, without persisting anything (spec.md §6 preview_addition).
func (r *Reasoner) PreviewAddition(ctx context.Context, newTriples []term.Triple, existing fact.Set, opts Options) ([]term.Triple, error) {
	plans, _, err := r.compile(existing.Slice())
	if err != nil {
		return nil, err
	}

	closure := existing
	var allDerived []term.Triple
	for _, nt := range newTriples {
		res, err := incremental.PreviewAddition(ctx, plans, closure, nt, opts.evaluatorOptions(), r.tr)
		if err != nil {
			return nil, err
		}
		allDerived = append(allDerived, nt)
		allDerived = append(allDerived, res.NewlyDerived...)
		closure = res.Closure
	}
	return allDerived, nil
}

// DeleteResult is the outcome of DeleteWithReasoning.
type DeleteResult struct {
	FinalFacts     fact.Set
	DerivedKept    []term.Triple
	DerivedDeleted []term.Triple
	Stats          Stats
}

// DeleteWithReasoning removes deleted from allFacts, traces which derived
// facts might depend on the deletion, and forward-rederives each to decide
// whether it still holds (spec.md §4.J, §4.K, §6 delete_with_reasoning).
func (r *Reasoner) DeleteWithReasoning(ctx context.Context, deleted []term.Triple, allFacts fact.Set, opts Options) (DeleteResult, error) {
	start := time.Now()
	if err := r.tracker.Transition(tbox.Compiling); err != nil {
		return DeleteResult{}, err
	}
	plans, schemaVersion, err := r.compile(allFacts.Slice())
	if err != nil {
		_ = r.tracker.Fail(err)
		return DeleteResult{}, err
	}
	rules := make([]rule.Rule, len(plans))
	for i, p := range plans {
		rules[i] = p.Rule
	}

	if err := r.tracker.Transition(tbox.Materializing); err != nil {
		return DeleteResult{}, err
	}

	var finalResult DeleteResult
	err = r.tr.Span(telemetry.DeleteSpan, map[string]any{"deleted_count": len(deleted)}, func() (map[string]any, error) {
		closure := allFacts
		var keptAll, deletedAll []term.Triple

		for _, d := range deleted {
			// Reuses MaxIterations as the trace's hop budget: both cap how far
			// a monotone fixpoint-style traversal is allowed to run, and 0
			// means unbounded in both Options shapes.
			potentiallyInvalid := trace.PotentiallyInvalid(closure, rules, d, trace.Options{MaxDepth: opts.MaxIterations})
			r.tr.Emit(telemetry.BackwardTraceComplete, map[string]any{"fact": d.String(), "candidates": len(potentiallyInvalid)})

			res := rederive.Resolve(closure, rules, d, potentiallyInvalid)
			r.tr.Emit(telemetry.ForwardRederiveComplete, map[string]any{"fact": d.String(), "kept": len(res.Kept), "deleted": len(res.Deleted)})

			closure = res.Closure
			keptAll = append(keptAll, res.Kept...)
			deletedAll = append(deletedAll, res.Deleted...)

			if r.store != nil {
				for _, f := range res.Deleted {
					if err := r.store.DeleteDerived(ctx, f); err != nil {
						return nil, err
					}
				}
			}
		}

		finalResult = DeleteResult{
			FinalFacts:     closure,
			DerivedKept:    keptAll,
			DerivedDeleted: deletedAll,
		}
		return map[string]any{"kept": len(keptAll), "deleted": len(deletedAll)}, nil
	})
	if err != nil {
		_ = r.tracker.Fail(err)
		return DeleteResult{}, err
	}
	derivedCount := len(finalResult.DerivedKept)
	explicitCount := finalResult.FinalFacts.Len() - derivedCount
	if err := r.tracker.CompleteMaterialization(schemaVersion, explicitCount, derivedCount); err != nil {
		return DeleteResult{}, err
	}

	finalResult.Stats = Stats{Duration: time.Since(start)}
	return finalResult, nil
}

// CanRederive reports whether fact is derivable from facts under rules in a
// single step (spec.md §4.K / §6 can_rederive?).
func CanRederive(f term.Triple, facts fact.Set, rules []rule.Rule) bool {
	return rederive.CanDerive(rules, facts, f)
}
