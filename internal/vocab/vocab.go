// Package vocab centralizes the RDF/RDFS/OWL IRIs the rule catalogue and
// schema extractor pattern-match against, so every package spells them the
// same way.
package vocab

import "github.com/rdfreason/reasoner/internal/term"

const (
	RDFType            = term.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	RDFSSubClassOf     = term.IRI("http://www.w3.org/2000/01/rdf-schema#subClassOf")
	RDFSSubPropertyOf  = term.IRI("http://www.w3.org/2000/01/rdf-schema#subPropertyOf")
	RDFSDomain         = term.IRI("http://www.w3.org/2000/01/rdf-schema#domain")
	RDFSRange          = term.IRI("http://www.w3.org/2000/01/rdf-schema#range")

	OWLSameAs               = term.IRI("http://www.w3.org/2002/07/owl#sameAs")
	OWLTransitiveProperty   = term.IRI("http://www.w3.org/2002/07/owl#TransitiveProperty")
	OWLSymmetricProperty    = term.IRI("http://www.w3.org/2002/07/owl#SymmetricProperty")
	OWLFunctionalProperty   = term.IRI("http://www.w3.org/2002/07/owl#FunctionalProperty")
	OWLInverseFunctional    = term.IRI("http://www.w3.org/2002/07/owl#InverseFunctionalProperty")
	OWLInverseOf            = term.IRI("http://www.w3.org/2002/07/owl#inverseOf")
	OWLThing                = term.IRI("http://www.w3.org/2002/07/owl#Thing")
	OWLHasValue             = term.IRI("http://www.w3.org/2002/07/owl#hasValue")
	OWLOnProperty           = term.IRI("http://www.w3.org/2002/07/owl#onProperty")
	OWLSomeValuesFrom       = term.IRI("http://www.w3.org/2002/07/owl#someValuesFrom")
	OWLAllValuesFrom        = term.IRI("http://www.w3.org/2002/07/owl#allValuesFrom")
	OWLRestriction          = term.IRI("http://www.w3.org/2002/07/owl#Restriction")
)
