package lookup_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/lookup"
	"github.com/rdfreason/reasoner/internal/term"
)

func constFunc(triples ...term.Triple) lookup.Func {
	return func(term.Pattern) ([]term.Triple, error) { return triples, nil }
}

func TestUnion_ConcatenatesAllSources(t *testing.T) {
	a := term.Triple{S: term.IRI("a"), P: term.IRI("p"), O: term.IRI("b")}
	b := term.Triple{S: term.IRI("c"), P: term.IRI("p"), O: term.IRI("d")}

	u := lookup.Union(constFunc(a), constFunc(b))
	out, err := u(term.Pattern{S: term.Variable("x"), P: term.IRI("p"), O: term.Variable("y")})
	require.NoError(t, err)
	require.ElementsMatch(t, []term.Triple{a, b}, out)
}

func TestUnion_StopsAtFirstError(t *testing.T) {
	failing := func(term.Pattern) ([]term.Triple, error) { return nil, errors.New("boom") }
	called := false
	never := func(term.Pattern) ([]term.Triple, error) { called = true; return nil, nil }

	u := lookup.Union(failing, never)
	_, err := u(term.Pattern{})
	require.Error(t, err)
	require.False(t, called)
}

func TestUnion_EmptyFuncsReturnsNil(t *testing.T) {
	u := lookup.Union()
	out, err := u(term.Pattern{})
	require.NoError(t, err)
	require.Empty(t, out)
}
