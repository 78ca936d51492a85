// Package lookup defines the pattern-lookup contract every fact source in
// the reasoner (the caller's explicit-triple store, the derived-fact store,
// the union the evaluator reads from) implements identically, so components
// upstream of storage never need to know which kind they're talking to.
package lookup

import "github.com/rdfreason/reasoner/internal/term"

// Func resolves every ground triple matching pattern. An implementation may
// hold any position ground or as a Variable; binding is the caller's job.
// It returns an error only for a genuine storage failure, never for "no
// matches" (that's just a nil/empty result).
type Func func(pattern term.Pattern) ([]term.Triple, error)

// Union combines several lookup funcs into one that concatenates their
// results, stopping at the first error. Used to present "explicit ∪ derived"
// as a single lookup.Func to callers that shouldn't care about the split.
func Union(funcs ...Func) Func {
	return func(pattern term.Pattern) ([]term.Triple, error) {
		var out []term.Triple
		for _, f := range funcs {
			matches, err := f(pattern)
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
		}
		return out, nil
	}
}
