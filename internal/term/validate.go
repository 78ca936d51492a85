package term

import (
	"strings"

	"github.com/rdfreason/reasoner/internal/reasonerr"
)

// forbidden holds the injection-prone character class rejected by ValidateIRI:
// angle brackets, braces, quotes, backslash, and CR/LF/semicolon.
const forbidden = "<>{}\"\\;\r\n"

// ValidateIRI rejects IRIs containing characters that would let a crafted
// string value escape the serialized Turtle/N-Triples position it is placed
// in downstream. It is the single hygiene gate every IRI must pass before
// entering the schema-extraction path (spec.md §4.C, DESIGN NOTES).
func ValidateIRI(iri IRI) error {
	s := string(iri)
	if s == "" {
		return reasonerr.New(reasonerr.InvalidIRI, "ValidateIRI", nil, "empty IRI")
	}
	if i := strings.IndexAny(s, forbidden); i >= 0 {
		return reasonerr.New(reasonerr.InvalidIRI, "ValidateIRI", nil,
			"IRI %q contains forbidden character %q at offset %d", s, s[i], i)
	}
	return nil
}
