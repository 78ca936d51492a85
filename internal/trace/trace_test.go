package trace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
	"github.com/rdfreason/reasoner/internal/trace"
)

func iri(s string) term.IRI { return term.IRI(s) }
func tr(s, p, o term.Term) term.Triple { return term.Triple{S: s, P: p, O: o} }

func transitiveRule(predicate term.IRI) rule.Rule {
	x, y, z := term.Variable("x"), term.Variable("y"), term.Variable("z")
	return rule.Rule{
		Name: "trans",
		Body: []term.Pattern{
			{S: x, P: predicate, O: y},
			{S: y, P: predicate, O: z},
		},
		Head: term.Pattern{S: x, P: predicate, O: z},
	}
}

func TestPotentiallyInvalid_FindsDirectDependent(t *testing.T) {
	pred := iri("leads_to")
	a, b, c := iri("a"), iri("b"), iri("c")
	closure := fact.New(tr(a, pred, b), tr(b, pred, c), tr(a, pred, c))

	out := trace.PotentiallyInvalid(closure, []rule.Rule{transitiveRule(pred)}, tr(a, pred, b), trace.Options{})
	require.Contains(t, out, tr(a, pred, c))
}

func TestPotentiallyInvalid_PropagatesTransitively(t *testing.T) {
	pred := iri("leads_to")
	a, b, c, d := iri("a"), iri("b"), iri("c"), iri("d")
	closure := fact.New(
		tr(a, pred, b), tr(b, pred, c), tr(c, pred, d),
		tr(a, pred, c), tr(b, pred, d), tr(a, pred, d),
	)

	out := trace.PotentiallyInvalid(closure, []rule.Rule{transitiveRule(pred)}, tr(a, pred, b), trace.Options{})
	require.Contains(t, out, tr(a, pred, c))
	require.Contains(t, out, tr(a, pred, d))
}

func TestPotentiallyInvalid_MaxDepthLimitsHops(t *testing.T) {
	pred := iri("leads_to")
	w, a, b, c := iri("w"), iri("a"), iri("b"), iri("c")
	// One hop from (a,b) reaches (a,c) and (w,b); (w,c) needs a second hop.
	closure := fact.New(
		tr(w, pred, a), tr(a, pred, b), tr(b, pred, c),
		tr(w, pred, b), tr(a, pred, c), tr(w, pred, c),
	)

	out := trace.PotentiallyInvalid(closure, []rule.Rule{transitiveRule(pred)}, tr(a, pred, b), trace.Options{MaxDepth: 1})
	require.Contains(t, out, tr(a, pred, c))
	require.NotContains(t, out, tr(w, pred, c))
}

func TestPotentiallyInvalid_UnrelatedFactNotFlagged(t *testing.T) {
	pred := iri("leads_to")
	a, b, z, w := iri("a"), iri("b"), iri("z"), iri("w")
	closure := fact.New(tr(a, pred, b), tr(z, pred, w))

	out := trace.PotentiallyInvalid(closure, []rule.Rule{transitiveRule(pred)}, tr(a, pred, b), trace.Options{})
	require.NotContains(t, out, tr(z, pred, w))
}
