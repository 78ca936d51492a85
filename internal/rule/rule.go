// Package rule provides the rule representation of spec.md §4.A: typed
// patterns, conditions, the variable-safety invariant, and substitution.
package rule

import (
	"fmt"

	"github.com/rdfreason/reasoner/internal/schema"
	"github.com/rdfreason/reasoner/internal/term"
)

// Binding maps variables to the ground terms they've been matched against.
type Binding map[term.Variable]term.Term

// Condition is a predicate over a binding. Only not_equal and the optional
// is_blank/is_iri are required by spec.md §3; more can be added without
// touching the evaluator.
type Condition interface {
	Eval(b Binding) bool
	Variables() []term.Variable
	// Unsatisfiable reports conditions that can never hold regardless of
	// binding, e.g. not_equal(v, v) — checked by Validate.
	Unsatisfiable() bool
	String() string
}

// NotEqual holds when the two variables are bound to different ground terms.
// Unbound variables make it vacuously true (the join hasn't reached them yet).
type NotEqual struct{ A, B term.Variable }

func (c NotEqual) Eval(b Binding) bool {
	va, oka := b[c.A]
	vb, okb := b[c.B]
	if !oka || !okb {
		return true
	}
	return !va.Equal(vb)
}
func (c NotEqual) Variables() []term.Variable { return []term.Variable{c.A, c.B} }
func (c NotEqual) Unsatisfiable() bool        { return c.A == c.B }
func (c NotEqual) String() string             { return fmt.Sprintf("not_equal(%s, %s)", c.A, c.B) }

// IsBlank holds when the variable is bound to a blank node.
type IsBlank struct{ V term.Variable }

func (c IsBlank) Eval(b Binding) bool {
	v, ok := b[c.V]
	if !ok {
		return true
	}
	_, isBlank := v.(term.Blank)
	return isBlank
}
func (c IsBlank) Variables() []term.Variable { return []term.Variable{c.V} }
func (c IsBlank) Unsatisfiable() bool        { return false }
func (c IsBlank) String() string             { return fmt.Sprintf("is_blank(%s)", c.V) }

// IsIRI holds when the variable is bound to an IRI.
type IsIRI struct{ V term.Variable }

func (c IsIRI) Eval(b Binding) bool {
	v, ok := b[c.V]
	if !ok {
		return true
	}
	_, isIRI := v.(term.IRI)
	return isIRI
}
func (c IsIRI) Variables() []term.Variable { return []term.Variable{c.V} }
func (c IsIRI) Unsatisfiable() bool        { return false }
func (c IsIRI) String() string             { return fmt.Sprintf("is_iri(%s)", c.V) }

// Profile tags a rule's RDFS/OWL2RL origin.
type Profile string

const (
	RDFS   Profile = "rdfs"
	OWL2RL Profile = "owl2rl"
)

// Metadata records everything about a rule beyond its body/head shape.
type Metadata struct {
	Profile       Profile
	Applicable    func(*schema.Info) bool
	DeltaPositions []int // default: every body-pattern index
	Description   string
}

// Rule is immutable after construction: {name, body, head, metadata}.
type Rule struct {
	Name       string
	Body       []term.Pattern
	Conditions []Condition
	Head       term.Pattern
	Meta       Metadata
}

// Variables returns every distinct variable across the body and head.
func (r Rule) Variables() []term.Variable {
	seen := map[term.Variable]bool{}
	var out []term.Variable
	collect := func(p term.Pattern) {
		for _, v := range term.Variables(p) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	for _, p := range r.Body {
		collect(p)
	}
	collect(r.Head)
	return out
}

// Safe reports the safety invariant: every head variable appears in some
// body pattern.
func (r Rule) Safe() bool {
	bodyVars := map[term.Variable]bool{}
	for _, p := range r.Body {
		for _, v := range term.Variables(p) {
			bodyVars[v] = true
		}
	}
	for _, v := range term.Variables(r.Head) {
		if !bodyVars[v] {
			return false
		}
	}
	return true
}

// Ground reports whether pattern p has no remaining variables.
func (r Rule) Ground(p term.Pattern) bool { return p.Ground() }

// Substitute replaces every variable in p that binding covers, leaving
// unknown variables in place.
func (r Rule) Substitute(p term.Pattern, b Binding) term.Pattern {
	resolve := func(t term.Term) term.Term {
		if v, ok := t.(term.Variable); ok {
			if bound, ok := b[v]; ok {
				return bound
			}
		}
		return t
	}
	return term.Pattern{S: resolve(p.S), P: resolve(p.P), O: resolve(p.O)}
}

// EvaluateConditions reports whether every condition holds under b.
func (r Rule) EvaluateConditions(b Binding) bool {
	for _, c := range r.Conditions {
		if !c.Eval(b) {
			return false
		}
	}
	return true
}

// DeltaPositions returns the configured delta positions, defaulting to every
// body-pattern index when Meta.DeltaPositions is empty.
func (r Rule) DeltaPositions() []int {
	if len(r.Meta.DeltaPositions) > 0 {
		return r.Meta.DeltaPositions
	}
	out := make([]int, len(r.Body))
	for i := range out {
		out[i] = i
	}
	return out
}

// Applicable reports whether r's applicability predicate holds for info. A
// nil predicate is always true.
func (r Rule) Applicable(info *schema.Info) bool {
	if r.Meta.Applicable == nil {
		return true
	}
	return r.Meta.Applicable(info)
}

// Defect names a validation failure surfaced by Validate.
type Defect string

const (
	DefectUnsafeHead             Defect = "unsafe_head_variable"
	DefectPatternArity           Defect = "pattern_arity_not_three"
	DefectUnsatisfiableCondition Defect = "unsatisfiable_condition"
)

// Validate returns every defect found in r. Pattern arity is structurally
// guaranteed to be 3 by term.Triple, so DefectPatternArity only fires when a
// caller builds a Pattern via reflection/deserialization with a missing
// field (the zero term.Term is nil, which Validate checks for directly).
func Validate(r Rule) []Defect {
	var defects []Defect
	if !r.Safe() {
		defects = append(defects, DefectUnsafeHead)
	}
	for _, p := range append(append([]term.Pattern{}, r.Body...), r.Head) {
		if p.S == nil || p.P == nil || p.O == nil {
			defects = append(defects, DefectPatternArity)
			break
		}
	}
	for _, c := range r.Conditions {
		if c.Unsatisfiable() {
			defects = append(defects, DefectUnsatisfiableCondition)
		}
	}
	return defects
}
