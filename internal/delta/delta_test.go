package delta_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/delta"
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/optimizer"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

func iri(s string) term.IRI { return term.IRI(s) }

func tr(s, p, o term.Term) term.Triple { return term.Triple{S: s, P: p, O: o} }

func sortTriples(ts []term.Triple) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].String() < ts[j].String() })
}

// transitivity rule: ?x knows ?y, ?y knows ?z -> ?x knows ?z.
func knowsRule() rule.Rule {
	knows := iri("knows")
	x, y, z := term.Variable("x"), term.Variable("y"), term.Variable("z")
	return rule.Rule{
		Name: "knows_trans",
		Body: []term.Pattern{
			{S: x, P: knows, O: y},
			{S: y, P: knows, O: z},
		},
		Head: term.Pattern{S: x, P: knows, O: z},
	}
}

func planFor(r rule.Rule) optimizer.Plan {
	order := make([]int, len(r.Body))
	for i := range order {
		order[i] = i
	}
	return optimizer.Plan{Rule: r, Order: r.Body, OrderIndex: order}
}

func TestApplyRuleDelta_NewFactDerivesViaEitherJoinSide(t *testing.T) {
	r := knowsRule()
	plan := planFor(r)
	knows := iri("knows")
	a, b, c := iri("a"), iri("b"), iri("c")

	base := fact.New(tr(a, knows, b), tr(b, knows, c))
	delt := fact.New(tr(b, knows, c))

	out := delta.ApplyRuleDelta(plan, base, delt, base, delta.Options{})
	require.Len(t, out, 1)
	require.True(t, out[0].Equal(tr(a, knows, c)))
}

func TestApplyRuleDelta_DedupesAcrossDeltaPositions(t *testing.T) {
	r := knowsRule()
	plan := planFor(r)
	knows := iri("knows")
	a, b, c := iri("a"), iri("b"), iri("c")

	// Both body patterns are satisfied entirely within delta itself. Position
	// 0 finds (a knows c); position 1 joins its earlier pattern against
	// f minus delta, which is empty here, so the call reports it once.
	f := fact.New(tr(a, knows, b), tr(b, knows, c))
	out := delta.ApplyRuleDelta(plan, f, f, fact.New(), delta.Options{})
	require.Len(t, out, 1)
	require.True(t, out[0].Equal(tr(a, knows, c)))
}

func TestApplyRuleDelta_SkipsAlreadyKnown(t *testing.T) {
	r := knowsRule()
	plan := planFor(r)
	knows := iri("knows")
	a, b, c := iri("a"), iri("b"), iri("c")

	base := fact.New(tr(a, knows, b), tr(b, knows, c), tr(a, knows, c))
	delt := fact.New(tr(b, knows, c))

	out := delta.ApplyRuleDelta(plan, base, delt, base, delta.Options{})
	require.Empty(t, out)
}

func TestApplyRuleDelta_NoMatchProducesNothing(t *testing.T) {
	r := knowsRule()
	plan := planFor(r)
	knows := iri("knows")
	a, b := iri("a"), iri("b")

	base := fact.New(tr(a, knows, b))
	delt := fact.New(tr(a, knows, b))

	out := delta.ApplyRuleDelta(plan, base, delt, base, delta.Options{})
	require.Empty(t, out)
}

func TestApplyRuleDelta_MaxDerivationsStopsEarly(t *testing.T) {
	r := knowsRule()
	plan := planFor(r)
	knows := iri("knows")
	x := iri("x")

	// A star of 3 distinct middle nodes all pointing from/at x produces
	// several transitive derivations; cap to 1 and confirm the call honors it.
	base := fact.New(
		tr(x, knows, iri("m1")), tr(iri("m1"), knows, iri("n1")),
		tr(x, knows, iri("m2")), tr(iri("m2"), knows, iri("n2")),
		tr(x, knows, iri("m3")), tr(iri("m3"), knows, iri("n3")),
	)
	out := delta.ApplyRuleDelta(plan, base, base, fact.New(), delta.Options{MaxDerivations: 1})
	require.Len(t, out, 1)
}

func TestApplyRuleDelta_ConditionsFilterFunctionalStyleRule(t *testing.T) {
	// x p y1, x p y2 -> y1 sameAs y2, with not_equal(y1, y2).
	p := iri("p")
	sameAs := iri("sameAs")
	x, y1, y2 := term.Variable("x"), term.Variable("y1"), term.Variable("y2")
	r := rule.Rule{
		Name: "fp_like",
		Body: []term.Pattern{
			{S: x, P: p, O: y1},
			{S: x, P: p, O: y2},
		},
		Head:       term.Pattern{S: y1, P: sameAs, O: y2},
		Conditions: []rule.Condition{rule.NotEqual{A: y1, B: y2}},
	}
	plan := planFor(r)
	sub, a, b := iri("sub"), iri("a"), iri("b")

	base := fact.New(tr(sub, p, a), tr(sub, p, b))
	delt := fact.New(tr(sub, p, b))

	out := delta.ApplyRuleDelta(plan, base, delt, fact.New(), delta.Options{})
	sortTriples(out)
	require.Len(t, out, 2) // (a sameAs b) and (b sameAs a), from the two delta positions
	require.True(t, out[0].Equal(tr(a, sameAs, b)) || out[0].Equal(tr(b, sameAs, a)))
}
