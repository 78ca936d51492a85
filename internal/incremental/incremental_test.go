package incremental_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/derivedstore"
	"github.com/rdfreason/reasoner/internal/evaluator"
	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/incremental"
	"github.com/rdfreason/reasoner/internal/optimizer"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

func iri(s string) term.IRI { return term.IRI(s) }
func tr(s, p, o term.Term) term.Triple { return term.Triple{S: s, P: p, O: o} }

func transitivePlan(predicate term.IRI) optimizer.Plan {
	x, y, z := term.Variable("x"), term.Variable("y"), term.Variable("z")
	r := rule.Rule{
		Name: "trans",
		Body: []term.Pattern{
			{S: x, P: predicate, O: y},
			{S: y, P: predicate, O: z},
		},
		Head: term.Pattern{S: x, P: predicate, O: z},
	}
	return optimizer.Plan{Rule: r, Order: r.Body, OrderIndex: []int{0, 1}}
}

func TestAddIncremental_DerivesNewTransitiveFact(t *testing.T) {
	pred := iri("leads_to")
	plan := transitivePlan(pred)
	closure := fact.New(tr(iri("a"), pred, iri("b")))

	res, err := incremental.AddIncremental(context.Background(), []optimizer.Plan{plan}, closure, tr(iri("b"), pred, iri("c")), nil, evaluator.Options{}, nil)
	require.NoError(t, err)
	require.False(t, res.AlreadyKnown)
	require.Len(t, res.NewlyDerived, 1)
	require.True(t, res.NewlyDerived[0].Equal(tr(iri("a"), pred, iri("c"))))
	require.Equal(t, "trans", res.Provenance[res.NewlyDerived[0]])
	require.True(t, res.Closure.Has(tr(iri("b"), pred, iri("c"))))
}

func TestAddIncremental_AlreadyKnownIsNoOp(t *testing.T) {
	pred := iri("leads_to")
	plan := transitivePlan(pred)
	fct := tr(iri("a"), pred, iri("b"))
	closure := fact.New(fct)

	res, err := incremental.AddIncremental(context.Background(), []optimizer.Plan{plan}, closure, fct, nil, evaluator.Options{}, nil)
	require.NoError(t, err)
	require.True(t, res.AlreadyKnown)
	require.Empty(t, res.NewlyDerived)
}

func TestPreviewAddition_DoesNotPersist(t *testing.T) {
	pred := iri("leads_to")
	plan := transitivePlan(pred)
	closure := fact.New(tr(iri("a"), pred, iri("b")))

	store, err := derivedstore.Open(context.Background(), "file::memory:?cache=shared", nil)
	require.NoError(t, err)
	defer store.Close()

	res, err := incremental.PreviewAddition(context.Background(), []optimizer.Plan{plan}, closure, tr(iri("b"), pred, iri("c")), evaluator.Options{}, nil)
	require.NoError(t, err)
	require.Len(t, res.NewlyDerived, 1)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestAddIncremental_PersistsToStore(t *testing.T) {
	pred := iri("leads_to")
	plan := transitivePlan(pred)
	closure := fact.New(tr(iri("a"), pred, iri("b")))

	store, err := derivedstore.Open(context.Background(), "file::memory:?cache=shared", nil)
	require.NoError(t, err)
	defer store.Close()

	newFact := tr(iri("b"), pred, iri("c"))
	_, err = incremental.AddIncremental(context.Background(), []optimizer.Plan{plan}, closure, newFact, store, evaluator.Options{}, nil)
	require.NoError(t, err)

	// newFact is explicit, not derived — it must never land in the
	// derived-fact store (spec.md's explicit/derived partition invariant).
	explicitInDerivedStore, err := store.DerivedExists(context.Background(), newFact)
	require.NoError(t, err)
	require.False(t, explicitInDerivedStore)

	derivedExists, err := store.DerivedExists(context.Background(), tr(iri("a"), pred, iri("c")))
	require.NoError(t, err)
	require.True(t, derivedExists)
}
