package match_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/fact"
	"github.com/rdfreason/reasoner/internal/match"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

func iri(s string) term.IRI { return term.IRI(s) }

func TestMatch_BindsVariablesPositionally(t *testing.T) {
	pattern := term.Pattern{S: term.Variable("x"), P: iri("knows"), O: term.Variable("y")}
	f := term.Triple{S: iri("alice"), P: iri("knows"), O: iri("bob")}

	b, ok := match.Match(pattern, f, rule.Binding{})
	require.True(t, ok)
	require.Equal(t, iri("alice"), b[term.Variable("x")])
	require.Equal(t, iri("bob"), b[term.Variable("y")])
}

func TestMatch_RepeatedVariableMustBeConsistent(t *testing.T) {
	pattern := term.Pattern{S: term.Variable("x"), P: iri("knows"), O: term.Variable("x")}

	_, ok := match.Match(pattern, term.Triple{S: iri("alice"), P: iri("knows"), O: iri("bob")}, rule.Binding{})
	require.False(t, ok)

	b, ok := match.Match(pattern, term.Triple{S: iri("alice"), P: iri("knows"), O: iri("alice")}, rule.Binding{})
	require.True(t, ok)
	require.Equal(t, iri("alice"), b[term.Variable("x")])
}

func TestMatch_BaseBindingConstrainsSubsequentMatch(t *testing.T) {
	base := rule.Binding{term.Variable("x"): iri("alice")}
	pattern := term.Pattern{S: term.Variable("x"), P: iri("knows"), O: term.Variable("y")}

	_, ok := match.Match(pattern, term.Triple{S: iri("carol"), P: iri("knows"), O: iri("bob")}, base)
	require.False(t, ok)
}

func TestMatch_GroundPatternMismatch(t *testing.T) {
	pattern := term.Pattern{S: iri("alice"), P: iri("knows"), O: iri("bob")}
	_, ok := match.Match(pattern, term.Triple{S: iri("alice"), P: iri("knows"), O: iri("carol")}, rule.Binding{})
	require.False(t, ok)
}

func TestFilterMatching_NarrowsByPredicateIndex(t *testing.T) {
	facts := fact.New(
		term.Triple{S: iri("alice"), P: iri("knows"), O: iri("bob")},
		term.Triple{S: iri("alice"), P: iri("age"), O: term.Literal{Value: "30"}},
		term.Triple{S: iri("bob"), P: iri("knows"), O: iri("carol")},
	)

	pattern := term.Pattern{S: term.Variable("x"), P: iri("knows"), O: term.Variable("y")}
	bindings := match.FilterMatching(facts, pattern, rule.Binding{})
	require.Len(t, bindings, 2)
}

func TestFilterMatching_BoundPredicateVariableNarrowsTheSame(t *testing.T) {
	facts := fact.New(
		term.Triple{S: iri("alice"), P: iri("knows"), O: iri("bob")},
		term.Triple{S: iri("alice"), P: iri("age"), O: term.Literal{Value: "30"}},
	)
	base := rule.Binding{term.Variable("p"): iri("knows")}
	pattern := term.Pattern{S: term.Variable("x"), P: term.Variable("p"), O: term.Variable("y")}

	bindings := match.FilterMatching(facts, pattern, base)
	require.Len(t, bindings, 1)
}
