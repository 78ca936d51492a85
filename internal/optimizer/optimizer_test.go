package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/compiler"
	"github.com/rdfreason/reasoner/internal/optimizer"
	"github.com/rdfreason/reasoner/internal/reasonerconfig"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/schema"
	"github.com/rdfreason/reasoner/internal/term"
)

func pat(s, p, o term.Term) term.Pattern { return term.Pattern{S: s, P: p, O: o} }

func TestOptimize_ReordersBodyBySelectivity(t *testing.T) {
	x, y, z := term.Variable("x"), term.Variable("y"), term.Variable("z")
	r := rule.Rule{
		Name: "r",
		// first pattern is all-unbound with a ground predicate (less selective
		// than the second, which additionally carries a literal).
		Body: []term.Pattern{
			pat(x, term.IRI("knows"), y),
			pat(y, term.IRI("age"), term.Literal{Value: "30"}),
		},
		Head: pat(x, term.IRI("derived"), z),
	}
	crs := &compiler.CompiledRuleSet{Generic: []rule.Rule{r}}

	plans, batches := optimizer.Optimize(crs, nil, nil)
	require.Len(t, plans, 1)
	require.Equal(t, []int{1, 0}, plans[0].OrderIndex, "the literal-bearing pattern is more selective and goes first")
	require.Len(t, batches, 1)
	require.Equal(t, "derived", batches[0].HeadPredicate)
}

func TestOptimize_StatsInfluenceOrdering(t *testing.T) {
	x, y := term.Variable("x"), term.Variable("y")
	r := rule.Rule{
		Name: "r",
		Body: []term.Pattern{
			pat(x, term.IRI("rare"), y),
			pat(x, term.IRI("common"), y),
		},
		Head: pat(x, term.IRI("derived"), y),
	}
	crs := &compiler.CompiledRuleSet{Generic: []rule.Rule{r}}
	stats := &optimizer.Stats{
		TotalTriples:    1000,
		PredicateCounts: map[string]int{"rare": 1, "common": 900},
	}

	plans, _ := optimizer.Optimize(crs, stats, nil)
	require.Equal(t, []int{0, 1}, plans[0].OrderIndex, "rare predicate is more selective under real stats")
}

func TestOptimize_PlacesConditionAfterAllVariablesBound(t *testing.T) {
	x, y1, y2 := term.Variable("x"), term.Variable("y1"), term.Variable("y2")
	r := rule.Rule{
		Name: "r",
		Body: []term.Pattern{
			pat(x, term.IRI("p"), y1),
			pat(x, term.IRI("p"), y2),
		},
		Head:       pat(y1, term.IRI("sameAs"), y2),
		Conditions: []rule.Condition{rule.NotEqual{A: y1, B: y2}},
	}
	crs := &compiler.CompiledRuleSet{Generic: []rule.Rule{r}}

	plans, _ := optimizer.Optimize(crs, nil, nil)
	require.Len(t, plans[0].Conditions, 1)
	require.Equal(t, 1, plans[0].Conditions[0].AfterIndex)
}

func TestOptimize_ActiveRulesPrefersSpecializedOverGeneric(t *testing.T) {
	info := schema.NewEmpty()
	info.TransitiveProperties = []string{"http://example.org/leadsTo"}
	crs, err := compiler.Compile(reasonerconfig.FullMaterialization(), info, compiler.Options{Specialize: true}, nil)
	require.NoError(t, err)

	plans, batches := optimizer.Optimize(crs, nil, nil)
	names := map[string]bool{}
	for _, p := range plans {
		names[p.Rule.Name] = true
	}
	require.True(t, names["prp_trp_leadsTo"])
	require.False(t, names["prp_trp"])
	require.NotEmpty(t, batches)
}

func TestFilter_DropsDeadRuleWithNoApplicableSibling(t *testing.T) {
	info := schema.NewEmpty()
	r := rule.Rule{
		Name: "prp_trp",
		Meta: rule.Metadata{Applicable: func(i *schema.Info) bool { return len(i.TransitiveProperties) > 0 }},
	}
	out := optimizer.Filter([]rule.Rule{r}, nil, info)
	require.Empty(t, out)
}

func TestFilter_KeepsDeadRuleWithApplicableSpecializedSibling(t *testing.T) {
	info := schema.NewEmpty()
	r := rule.Rule{
		Name: "prp_trp",
		Meta: rule.Metadata{Applicable: func(i *schema.Info) bool { return len(i.TransitiveProperties) > 0 }},
	}
	siblings := map[string][]rule.Rule{"prp_trp": {{Name: "prp_trp_leadsTo"}}}
	out := optimizer.Filter([]rule.Rule{r}, siblings, info)
	require.Len(t, out, 1)
}

func TestBatchByHeadPredicate_GroupsSharedHeadPredicate(t *testing.T) {
	x, y := term.Variable("x"), term.Variable("y")
	a := rule.Rule{Name: "a", Head: pat(x, term.IRI("p"), y)}
	b := rule.Rule{Name: "b", Head: pat(x, term.IRI("p"), y)}
	c := rule.Rule{Name: "c", Head: pat(x, term.IRI("q"), y)}
	crs := &compiler.CompiledRuleSet{Generic: []rule.Rule{a, b, c}}

	_, batches := optimizer.Optimize(crs, nil, nil)
	require.Len(t, batches, 2)
	for _, batch := range batches {
		if batch.HeadPredicate == "p" {
			require.ElementsMatch(t, []string{"a", "b"}, batch.RuleNames)
		}
	}
}
