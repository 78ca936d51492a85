package rule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

func pat(s, p, o term.Term) term.Pattern { return term.Pattern{S: s, P: p, O: o} }

func transitive() rule.Rule {
	x, y, z := term.Variable("x"), term.Variable("y"), term.Variable("z")
	pred := term.IRI("leads_to")
	return rule.Rule{
		Name: "trans",
		Body: []term.Pattern{pat(x, pred, y), pat(y, pred, z)},
		Head: pat(x, pred, z),
	}
}

func TestRule_Safe(t *testing.T) {
	require.True(t, transitive().Safe())

	unsafe := transitive()
	unsafe.Head = pat(term.Variable("x"), term.IRI("leads_to"), term.Variable("q"))
	require.False(t, unsafe.Safe())
}

func TestRule_Variables(t *testing.T) {
	vars := transitive().Variables()
	require.ElementsMatch(t, []term.Variable{"x", "y", "z"}, vars)
}

func TestRule_SubstituteLeavesUnboundInPlace(t *testing.T) {
	r := transitive()
	b := rule.Binding{term.Variable("x"): term.IRI("a")}
	result := r.Substitute(r.Head, b)

	require.Equal(t, term.IRI("a"), result.S)
	require.Equal(t, term.Variable("z"), result.O)
}

func TestRule_DeltaPositionsDefaultsToEveryBodyIndex(t *testing.T) {
	r := transitive()
	require.Equal(t, []int{0, 1}, r.DeltaPositions())

	r.Meta.DeltaPositions = []int{1}
	require.Equal(t, []int{1}, r.DeltaPositions())
}

func TestRule_ApplicableDefaultsToTrue(t *testing.T) {
	require.True(t, transitive().Applicable(nil))
}

func TestNotEqual_VacuousWhenUnbound(t *testing.T) {
	cond := rule.NotEqual{A: "x", B: "y"}
	require.True(t, cond.Eval(rule.Binding{}))
}

func TestNotEqual_Unsatisfiable(t *testing.T) {
	require.True(t, rule.NotEqual{A: "x", B: "x"}.Unsatisfiable())
	require.False(t, rule.NotEqual{A: "x", B: "y"}.Unsatisfiable())
}

func TestValidate_FlagsUnsafeHeadAndUnsatisfiableCondition(t *testing.T) {
	r := transitive()
	r.Head = pat(term.Variable("x"), term.IRI("leads_to"), term.Variable("q"))
	r.Conditions = []rule.Condition{rule.NotEqual{A: "x", B: "x"}}

	defects := rule.Validate(r)
	require.Contains(t, defects, rule.DefectUnsafeHead)
	require.Contains(t, defects, rule.DefectUnsatisfiableCondition)
}

func TestValidate_NoDefectsOnWellFormedRule(t *testing.T) {
	require.Empty(t, rule.Validate(transitive()))
}
