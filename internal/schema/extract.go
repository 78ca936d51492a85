package schema

import (
	"github.com/rdfreason/reasoner/internal/telemetry"
	"github.com/rdfreason/reasoner/internal/term"
	"github.com/rdfreason/reasoner/internal/vocab"
)

// Extract scans facts once and produces an Info. Any IRI appearing in a
// scanned triple is validated with term.ValidateIRI; an invalid IRI fails
// loudly (spec.md §4.C) rather than being silently skipped.
func Extract(facts []term.Triple, tr *telemetry.Tracer) (*Info, error) {
	info := NewEmpty()
	err := tr.Span(telemetry.ExtractSchemaSpan, map[string]any{"facts": len(facts)}, func() (map[string]any, error) {
		for _, f := range facts {
			if err := validateTripleIRIs(f); err != nil {
				return nil, err
			}
			classify(info, f)
		}
		info.Restamp()
		return map[string]any{
			"transitive_properties": len(info.TransitiveProperties),
			"symmetric_properties":  len(info.SymmetricProperties),
			"functional_properties": len(info.FunctionalProperties),
			"version":               info.Version,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	tr.Emit(telemetry.ExtractSchemaComplete, map[string]any{"version": info.Version})
	return info, nil
}

func validateTripleIRIs(f term.Triple) error {
	for _, t := range []term.Term{f.S, f.P, f.O} {
		if iri, ok := t.(term.IRI); ok {
			if err := term.ValidateIRI(iri); err != nil {
				return err
			}
		}
	}
	return nil
}

func classify(info *Info, f term.Triple) {
	pred, ok := f.P.(term.IRI)
	if !ok {
		return
	}
	switch pred {
	case vocab.RDFSSubClassOf:
		info.HasSubclass = true
	case vocab.RDFSSubPropertyOf:
		info.HasSubproperty = true
	case vocab.RDFSDomain:
		info.HasDomain = true
	case vocab.RDFSRange:
		info.HasRange = true
	case vocab.OWLSameAs:
		info.HasSameAs = true
	case vocab.OWLOnProperty, vocab.OWLHasValue, vocab.OWLSomeValuesFrom, vocab.OWLAllValuesFrom:
		info.HasRestrictions = true
	case vocab.OWLInverseOf:
		if s, ok1 := f.S.(term.IRI); ok1 {
			if o, ok2 := f.O.(term.IRI); ok2 {
				info.InversePairs = append(info.InversePairs, InversePair{A: string(s), B: string(o)})
			}
		}
	case vocab.RDFType:
		classifyTypeAssertion(info, f)
	}
}

func classifyTypeAssertion(info *Info, f term.Triple) {
	cls, ok := f.O.(term.IRI)
	if !ok {
		return
	}
	subj, ok := f.S.(term.IRI)
	if !ok {
		return
	}
	switch cls {
	case vocab.OWLTransitiveProperty:
		info.TransitiveProperties = appendCapped(info.TransitiveProperties, string(subj))
	case vocab.OWLSymmetricProperty:
		info.SymmetricProperties = appendCapped(info.SymmetricProperties, string(subj))
	case vocab.OWLFunctionalProperty:
		info.FunctionalProperties = appendCapped(info.FunctionalProperties, string(subj))
	case vocab.OWLInverseFunctional:
		info.InverseFunctionalProperties = appendCapped(info.InverseFunctionalProperties, string(subj))
	}
}
