// Package reasonerr defines the closed error taxonomy used across the
// reasoning engine (spec.md §7), following the same closed-iota-enum-plus-
// carrier-struct shape as the teacher's feedback.ErrorCategory/ValidationError.
package reasonerr

import "fmt"

// Kind classifies why an operation failed.
type Kind int

const (
	// InvalidProfile means a profile name outside {rdfs, owl2rl, custom, none}.
	InvalidProfile Kind = iota
	// InvalidMode means a mode name outside {materialized, query_time, hybrid, none}.
	InvalidMode
	// MissingOption means a required option was absent (e.g. custom without rules).
	MissingOption
	// UnknownRules means a rule name isn't in the catalogue.
	UnknownRules
	// InvalidIRI means an IRI contained a forbidden character.
	InvalidIRI
	// UnsafeRule means a head variable doesn't appear in any body pattern.
	UnsafeRule
	// InvalidPatternStructure means a pattern or condition in custom rule
	// text is malformed: a non-triple predicate, a wrong argument count, or
	// an argument that cannot be translated into a rule term.
	InvalidPatternStructure
	// UnsatisfiableCondition means a condition like not_equal(v, v) can never hold.
	UnsatisfiableCondition
	// MaxIterationsExceeded means the fixpoint cap was hit before convergence.
	MaxIterationsExceeded
	// LookupFailed means the lookup contract returned an error.
	LookupFailed
	// NotFound means a cache or registry lookup missed.
	NotFound
	// StorageFailure means the derived-fact store's backing database
	// rejected an operation (open, schema, insert, query).
	StorageFailure
	// InvalidTransition means a reasoning-status lifecycle move wasn't legal
	// from the current state (e.g. Materialized -> Materializing directly).
	InvalidTransition
)

func (k Kind) String() string {
	switch k {
	case InvalidProfile:
		return "invalid_profile"
	case InvalidMode:
		return "invalid_mode"
	case MissingOption:
		return "missing_option"
	case UnknownRules:
		return "unknown_rules"
	case InvalidIRI:
		return "invalid_iri"
	case UnsafeRule:
		return "unsafe_rule"
	case InvalidPatternStructure:
		return "invalid_pattern_structure"
	case UnsatisfiableCondition:
		return "unsatisfiable_condition"
	case MaxIterationsExceeded:
		return "max_iterations_exceeded"
	case LookupFailed:
		return "lookup_failed"
	case NotFound:
		return "not_found"
	case StorageFailure:
		return "storage_failure"
	case InvalidTransition:
		return "invalid_transition"
	default:
		return "unknown"
	}
}

// Error is the carrier type returned for every reasoner-originated failure.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "compiler.Compile"
	Err  error  // wrapped cause, nil for leaf errors
	Msg  string
}

func New(kind Kind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: cause, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err carries the given Kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var re *Error
	for err != nil {
		if r, ok := err.(*Error); ok {
			re = r
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return re != nil && re.Kind == kind
}
