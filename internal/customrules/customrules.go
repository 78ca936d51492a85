// Package customrules implements spec.md §4.M: translating a user-authored
// Datalog-style rule text block into native rule.Rule values for the
// ReasoningConfig{profile: custom} case. It leans on google/mangle's parser
// and analyzer the same way the teacher's internal/mangle.Engine does for
// its own schema compilation — as a syntax and safety front-end, not a
// second inference engine. Every rule produced here is still executed by
// this module's own evaluator, never by mangle's.
package customrules

import (
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	"github.com/google/mangle/parse"

	"github.com/rdfreason/reasoner/internal/reasonerr"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/term"
)

// triplePredicate is the only head/body predicate name a custom clause may
// use for an RDF atom; every other predicate name is a translation error,
// except the reserved condition predicate neqPredicate.
const triplePredicate = "triple"
const neqPredicate = "neq"

// Parse reads a Datalog-style source text and returns the rule.Rule values
// it declares. Every clause's head and body atoms must use the ternary
// convention triple(S, P, O); the only other permitted predicate is the
// binary neq(A, B) condition. Facts (clauses with no body) are rejected —
// this package ingests rules, not data.
func Parse(source string) ([]rule.Rule, error) {
	unit, err := parse.Unit(strings.NewReader(source))
	if err != nil {
		return nil, reasonerr.New(reasonerr.UnknownRules, "customrules.Parse", err, "malformed rule text")
	}

	if _, err := analysis.AnalyzeOneUnit(unit, nil); err != nil {
		return nil, reasonerr.New(reasonerr.UnknownRules, "customrules.Parse", err, "rule set failed safety/stratification analysis")
	}

	out := make([]rule.Rule, 0, len(unit.Clauses))
	for i, clause := range unit.Clauses {
		r, err := translateClause(clause, i)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func translateClause(clause ast.Clause, index int) (rule.Rule, error) {
	if len(clause.Premises) == 0 {
		return rule.Rule{}, reasonerr.New(reasonerr.UnknownRules, "customrules.translateClause", nil,
			"clause %d has no body; custom rules must have at least one body pattern", index)
	}

	vars := newVariableScope()

	head, err := translateTripleAtom(clause.Head, vars)
	if err != nil {
		return rule.Rule{}, fmt.Errorf("clause %d head: %w", index, err)
	}

	var body []term.Pattern
	var conditions []rule.Condition
	for _, premise := range clause.Premises {
		atom, ok := premise.(ast.Atom)
		if !ok {
			return rule.Rule{}, reasonerr.New(reasonerr.UnknownRules, "customrules.translateClause", nil,
				"clause %d: unsupported premise form %T", index, premise)
		}
		switch atom.Predicate.Symbol {
		case triplePredicate:
			pat, err := translateTripleAtom(atom, vars)
			if err != nil {
				return rule.Rule{}, fmt.Errorf("clause %d body: %w", index, err)
			}
			body = append(body, pat)
		case neqPredicate:
			cond, err := translateNeq(atom, vars, index)
			if err != nil {
				return rule.Rule{}, err
			}
			conditions = append(conditions, cond)
		default:
			return rule.Rule{}, reasonerr.New(reasonerr.UnknownRules, "customrules.translateClause", nil,
				"clause %d: predicate %q is not %q or %q", index, atom.Predicate.Symbol, triplePredicate, neqPredicate)
		}
	}

	r := rule.Rule{
		Name:       fmt.Sprintf("custom_%d", index),
		Body:       body,
		Conditions: conditions,
		Head:       head,
		Meta:       customMetadata(),
	}
	if !r.Safe() {
		return rule.Rule{}, reasonerr.New(reasonerr.UnsafeRule, "customrules.translateClause", nil,
			"clause %d: head variable not bound by any body pattern", index)
	}
	return r, nil
}

// customMetadata is the rule.Metadata every custom rule carries: no profile
// tag (custom rules aren't rdfs/owl2rl), always applicable, and default
// (whole-body) delta positions since there's no schema-driven specialization
// for user-authored rules.
func customMetadata() rule.Metadata {
	return rule.Metadata{Description: "user-supplied custom rule"}
}

func translateTripleAtom(atom ast.Atom, vars *variableScope) (term.Pattern, error) {
	if atom.Predicate.Symbol != triplePredicate {
		return term.Pattern{}, reasonerr.New(reasonerr.InvalidPatternStructure, "customrules.translateTripleAtom", nil,
			"predicate %q must be %q", atom.Predicate.Symbol, triplePredicate)
	}
	if len(atom.Args) != 3 {
		return term.Pattern{}, reasonerr.New(reasonerr.InvalidPatternStructure, "customrules.translateTripleAtom", nil,
			"triple/3 takes exactly 3 arguments, got %d", len(atom.Args))
	}
	s, err := translateBaseTerm(atom.Args[0], vars)
	if err != nil {
		return term.Pattern{}, err
	}
	p, err := translateBaseTerm(atom.Args[1], vars)
	if err != nil {
		return term.Pattern{}, err
	}
	o, err := translateBaseTerm(atom.Args[2], vars)
	if err != nil {
		return term.Pattern{}, err
	}
	return term.Pattern{S: s, P: p, O: o}, nil
}

func translateNeq(atom ast.Atom, vars *variableScope, clauseIndex int) (rule.Condition, error) {
	if len(atom.Args) != 2 {
		return nil, reasonerr.New(reasonerr.InvalidPatternStructure, "customrules.translateNeq", nil,
			"clause %d: neq/2 takes exactly 2 arguments, got %d", clauseIndex, len(atom.Args))
	}
	av, aok := atom.Args[0].(ast.Variable)
	bv, bok := atom.Args[1].(ast.Variable)
	if !aok || !bok {
		return nil, reasonerr.New(reasonerr.InvalidPatternStructure, "customrules.translateNeq", nil,
			"clause %d: neq/2 arguments must both be variables", clauseIndex)
	}
	cond := rule.NotEqual{A: vars.get(av.Symbol), B: vars.get(bv.Symbol)}
	if cond.Unsatisfiable() {
		return nil, reasonerr.New(reasonerr.UnsatisfiableCondition, "customrules.translateNeq", nil,
			"clause %d: neq(%s, %s) can never hold", clauseIndex, av.Symbol, bv.Symbol)
	}
	return cond, nil
}

func translateBaseTerm(bt ast.BaseTerm, vars *variableScope) (term.Term, error) {
	switch v := bt.(type) {
	case ast.Variable:
		return vars.get(v.Symbol), nil
	case ast.Constant:
		return translateConstant(v)
	default:
		return nil, reasonerr.New(reasonerr.InvalidPatternStructure, "customrules.translateBaseTerm", nil,
			"unsupported term kind %T in triple/3 argument", bt)
	}
}

func translateConstant(c ast.Constant) (term.Term, error) {
	switch c.Type {
	case ast.StringType, ast.NameType:
		s := c.Symbol
		if strings.HasPrefix(s, "_:") {
			return term.Blank(strings.TrimPrefix(s, "_:")), nil
		}
		return term.IRI(strings.TrimPrefix(s, "/")), nil
	default:
		return nil, reasonerr.New(reasonerr.InvalidPatternStructure, "customrules.translateConstant", nil,
			"triple/3 arguments must be IRIs or blank node names, got constant type %v", c.Type)
	}
}

// variableScope assigns a stable rule.Variable to each distinct Mangle
// variable name within one clause, so repeated occurrences (the whole point
// of a join) map to the same term.Variable.
type variableScope struct {
	names map[string]term.Variable
}

func newVariableScope() *variableScope {
	return &variableScope{names: map[string]term.Variable{}}
}

func (s *variableScope) get(name string) term.Variable {
	if v, ok := s.names[name]; ok {
		return v
	}
	v := term.Variable(name)
	s.names[name] = v
	return v
}
