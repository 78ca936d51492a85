package derivedstore

import "github.com/rdfreason/reasoner/internal/term"

// columns is the flat, column-per-field encoding of a single term.Term used
// for every subject/predicate/object position. Splitting into real columns
// (rather than packing a term into one delimited string) means no escaping
// scheme is needed and every position stays independently indexable.
type columns struct {
	Kind    string // "iri", "blank", "literal"
	Value   string
	LitKind string // "simple", "typed", "lang"; empty unless Kind == "literal"
	LitExtra string // datatype IRI or language tag; empty unless meaningful
}

func encodeTerm(t term.Term) columns {
	switch v := t.(type) {
	case term.IRI:
		return columns{Kind: "iri", Value: string(v)}
	case term.Blank:
		return columns{Kind: "blank", Value: string(v)}
	case term.Literal:
		c := columns{Kind: "literal", Value: v.Value}
		switch v.Kind {
		case term.Typed:
			c.LitKind = "typed"
			c.LitExtra = string(v.Datatype)
		case term.Lang:
			c.LitKind = "lang"
			c.LitExtra = v.Lang
		default:
			c.LitKind = "simple"
		}
		return c
	default:
		// term.Variable never appears in a ground fact; encode defensively
		// rather than panic, so a caller bug surfaces as a lookup miss.
		return columns{Kind: "iri", Value: t.String()}
	}
}

func decodeTerm(c columns) term.Term {
	switch c.Kind {
	case "blank":
		return term.Blank(c.Value)
	case "literal":
		switch c.LitKind {
		case "typed":
			return term.Literal{Value: c.Value, Kind: term.Typed, Datatype: term.IRI(c.LitExtra)}
		case "lang":
			return term.Literal{Value: c.Value, Kind: term.Lang, Lang: c.LitExtra}
		default:
			return term.Literal{Value: c.Value, Kind: term.Simple}
		}
	default:
		return term.IRI(c.Value)
	}
}
