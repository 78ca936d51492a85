// Package catalogue defines the 23 fixed RDFS/OWL 2 RL rules spec.md §4.B
// names, with canonical bodies, heads, and applicability predicates drawn
// literally from the W3C OWL 2 RL profile.
package catalogue

import (
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/schema"
	"github.com/rdfreason/reasoner/internal/term"
	"github.com/rdfreason/reasoner/internal/vocab"
)

// variable name shorthands used throughout the catalogue bodies.
const (
	c1, c2, c3 = term.Variable("c1"), term.Variable("c2"), term.Variable("c3")
	p1, p2, p3 = term.Variable("p1"), term.Variable("p2"), term.Variable("p3")
	x, y, z    = term.Variable("x"), term.Variable("y"), term.Variable("z")
	u, v       = term.Variable("u"), term.Variable("v")
	s, p, o    = term.Variable("s"), term.Variable("p"), term.Variable("o")
	s2, p2var, o2 = term.Variable("s2"), term.Variable("p2"), term.Variable("o2")
	y1, y2     = term.Variable("y1"), term.Variable("y2")
	x1, x2     = term.Variable("x1"), term.Variable("x2")
)

func pat(s, p, o term.Term) term.Pattern { return term.Pattern{S: s, P: p, O: o} }

func always(*schema.Info) bool { return true }

// All returns the 23 canonical rules, unfiltered and unspecialized. Callers
// typically pass this to compiler.Compile rather than using it directly.
func All() []rule.Rule {
	return []rule.Rule{
		scmSCO(), scmSPO(), caxSCO(), prpSPO1(), prpDOM(), prpRNG(),
		prpTRP(), prpSYMP(), prpINV1(), prpINV2(), prpFP(), prpIFP(),
		eqREF(), eqSYM(), eqTRANS(), eqREPS(), eqREPP(), eqREPO(),
		clsHV1(), clsHV2(), clsSVF1(), clsSVF2(), clsAVF(),
	}
}

// --- RDFS ---

func scmSCO() rule.Rule {
	return rule.Rule{
		Name: "scm_sco",
		Body: []term.Pattern{
			pat(c1, vocab.RDFSSubClassOf, c2),
			pat(c2, vocab.RDFSSubClassOf, c3),
		},
		Head: pat(c1, vocab.RDFSSubClassOf, c3),
		Meta: rule.Metadata{
			Profile:     rule.RDFS,
			Applicable:  func(i *schema.Info) bool { return i.HasSubclass },
			Description: "subClassOf is transitive",
		},
	}
}

func scmSPO() rule.Rule {
	return rule.Rule{
		Name: "scm_spo",
		Body: []term.Pattern{
			pat(p1, vocab.RDFSSubPropertyOf, p2),
			pat(p2, vocab.RDFSSubPropertyOf, p3),
		},
		Head: pat(p1, vocab.RDFSSubPropertyOf, p3),
		Meta: rule.Metadata{
			Profile:     rule.RDFS,
			Applicable:  func(i *schema.Info) bool { return i.HasSubproperty },
			Description: "subPropertyOf is transitive",
		},
	}
}

func caxSCO() rule.Rule {
	return rule.Rule{
		Name: "cax_sco",
		Body: []term.Pattern{
			pat(c1, vocab.RDFSSubClassOf, c2),
			pat(x, vocab.RDFType, c1),
		},
		Head: pat(x, vocab.RDFType, c2),
		Meta: rule.Metadata{
			Profile:     rule.RDFS,
			Applicable:  func(i *schema.Info) bool { return i.HasSubclass },
			Description: "instances of a subclass are instances of the superclass",
		},
	}
}

func prpSPO1() rule.Rule {
	return rule.Rule{
		Name: "prp_spo1",
		Body: []term.Pattern{
			pat(p1, vocab.RDFSSubPropertyOf, p2),
			pat(x, p1, y),
		},
		Head: pat(x, p2, y),
		Meta: rule.Metadata{
			Profile:     rule.RDFS,
			Applicable:  func(i *schema.Info) bool { return i.HasSubproperty },
			Description: "assertions via a subproperty hold via the superproperty",
		},
	}
}

func prpDOM() rule.Rule {
	return rule.Rule{
		Name: "prp_dom",
		Body: []term.Pattern{
			pat(p, vocab.RDFSDomain, c1),
			pat(x, p, y),
		},
		Head: pat(x, vocab.RDFType, c1),
		Meta: rule.Metadata{
			Profile:     rule.RDFS,
			Applicable:  func(i *schema.Info) bool { return i.HasDomain },
			Description: "rdfs:domain entails subject class membership",
		},
	}
}

func prpRNG() rule.Rule {
	return rule.Rule{
		Name: "prp_rng",
		Body: []term.Pattern{
			pat(p, vocab.RDFSRange, c1),
			pat(x, p, y),
		},
		Head: pat(y, vocab.RDFType, c1),
		Meta: rule.Metadata{
			Profile:     rule.RDFS,
			Applicable:  func(i *schema.Info) bool { return i.HasRange },
			Description: "rdfs:range entails object class membership",
		},
	}
}

// --- Property characteristics ---

func prpTRP() rule.Rule {
	return rule.Rule{
		Name: "prp_trp",
		Body: []term.Pattern{
			pat(p, vocab.RDFType, vocab.OWLTransitiveProperty),
			pat(x, p, y),
			pat(y, p, z),
		},
		Head: pat(x, p, z),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return len(i.TransitiveProperties) > 0 },
			Description: "transitive property composes with itself",
		},
	}
}

func prpSYMP() rule.Rule {
	return rule.Rule{
		Name: "prp_symp",
		Body: []term.Pattern{
			pat(p, vocab.RDFType, vocab.OWLSymmetricProperty),
			pat(x, p, y),
		},
		Head: pat(y, p, x),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return len(i.SymmetricProperties) > 0 },
			Description: "symmetric property holds in both directions",
		},
	}
}

func prpINV1() rule.Rule {
	return rule.Rule{
		Name: "prp_inv1",
		Body: []term.Pattern{
			pat(p1, vocab.OWLInverseOf, p2),
			pat(x, p1, y),
		},
		Head: pat(y, p2, x),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return len(i.InversePairs) > 0 },
			Description: "inverse property propagates forward",
		},
	}
}

func prpINV2() rule.Rule {
	return rule.Rule{
		Name: "prp_inv2",
		Body: []term.Pattern{
			pat(p1, vocab.OWLInverseOf, p2),
			pat(x, p2, y),
		},
		Head: pat(y, p1, x),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return len(i.InversePairs) > 0 },
			Description: "inverse property propagates backward",
		},
	}
}

func prpFP() rule.Rule {
	return rule.Rule{
		Name: "prp_fp",
		Body: []term.Pattern{
			pat(p, vocab.RDFType, vocab.OWLFunctionalProperty),
			pat(x, p, y1),
			pat(x, p, y2),
		},
		Head:       pat(y1, vocab.OWLSameAs, y2),
		Conditions: []rule.Condition{rule.NotEqual{A: y1, B: y2}},
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return len(i.FunctionalProperties) > 0 },
			Description: "a functional property has at most one value per subject",
		},
	}
}

func prpIFP() rule.Rule {
	return rule.Rule{
		Name: "prp_ifp",
		Body: []term.Pattern{
			pat(p, vocab.RDFType, vocab.OWLInverseFunctional),
			pat(x1, p, y),
			pat(x2, p, y),
		},
		Head:       pat(x1, vocab.OWLSameAs, x2),
		Conditions: []rule.Condition{rule.NotEqual{A: x1, B: x2}},
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return len(i.InverseFunctionalProperties) > 0 },
			Description: "an inverse-functional property has at most one subject per value",
		},
	}
}

// --- Equality ---

// eqREF materializes subject-position reflexivity from any triple. Whether
// to additionally materialize predicate/object-position reflexivity (and at
// what scale — the active domain can be large) is left to the mode policy
// per spec.md §9's open question; see reasonerconfig.ModeOpts["materialize_eq_ref"].
// compiler.Compile is the only place that decides whether this rule is
// included in a CompiledRuleSet at all, and whether EqRefExpansion's two
// extra rules join it.
func eqREF() rule.Rule {
	return rule.Rule{
		Name: "eq_ref",
		Body: []term.Pattern{pat(s, p, o)},
		Head: pat(s, vocab.OWLSameAs, s),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  always,
			Description: "every term that occurs is sameAs itself",
		},
	}
}

// EqRefExpansion returns the predicate- and object-position reflexivity
// rules that complete the W3C eq-ref axiom's full conclusion
// (T(s,p,o) => T(s,eq,s), T(p,eq,p), T(o,eq,o)) alongside the base eq_ref
// rule. compiler.Compile only appends these when
// reasonerconfig.Config.MaterializeEqRef() is true; by default eq_ref's
// reflexivity is deferred to query time and these never run.
func EqRefExpansion() []rule.Rule {
	return []rule.Rule{
		{
			Name: "eq_ref_p",
			Body: []term.Pattern{pat(s, p, o)},
			Head: pat(p, vocab.OWLSameAs, p),
			Meta: rule.Metadata{
				Profile:     rule.OWL2RL,
				Applicable:  always,
				Description: "every predicate that occurs is sameAs itself",
			},
		},
		{
			Name: "eq_ref_o",
			Body: []term.Pattern{pat(s, p, o)},
			Head: pat(o, vocab.OWLSameAs, o),
			Meta: rule.Metadata{
				Profile:     rule.OWL2RL,
				Applicable:  always,
				Description: "every object that occurs is sameAs itself",
			},
		},
	}
}

func eqSYM() rule.Rule {
	return rule.Rule{
		Name: "eq_sym",
		Body: []term.Pattern{pat(x, vocab.OWLSameAs, y)},
		Head: pat(y, vocab.OWLSameAs, x),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasSameAs },
			Description: "sameAs is symmetric",
		},
	}
}

func eqTRANS() rule.Rule {
	return rule.Rule{
		Name: "eq_trans",
		Body: []term.Pattern{
			pat(x, vocab.OWLSameAs, y),
			pat(y, vocab.OWLSameAs, z),
		},
		Head: pat(x, vocab.OWLSameAs, z),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasSameAs },
			Description: "sameAs is transitive",
		},
	}
}

func eqREPS() rule.Rule {
	return rule.Rule{
		Name: "eq_rep_s",
		Body: []term.Pattern{
			pat(s, vocab.OWLSameAs, s2),
			pat(s, p, o),
		},
		Head: pat(s2, p, o),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasSameAs },
			Description: "sameAs replaces the subject",
		},
	}
}

func eqREPP() rule.Rule {
	return rule.Rule{
		Name: "eq_rep_p",
		Body: []term.Pattern{
			pat(p, vocab.OWLSameAs, p2var),
			pat(s, p, o),
		},
		Head: pat(s, p2var, o),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasSameAs },
			Description: "sameAs replaces the predicate",
		},
	}
}

func eqREPO() rule.Rule {
	return rule.Rule{
		Name: "eq_rep_o",
		Body: []term.Pattern{
			pat(o, vocab.OWLSameAs, o2),
			pat(s, p, o),
		},
		Head: pat(s, p, o2),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasSameAs },
			Description: "sameAs replaces the object",
		},
	}
}

// --- Class restrictions ---

func clsHV1() rule.Rule {
	return rule.Rule{
		Name: "cls_hv1",
		Body: []term.Pattern{
			pat(c1, vocab.OWLHasValue, v),
			pat(c1, vocab.OWLOnProperty, p),
			pat(x, vocab.RDFType, c1),
		},
		Head: pat(x, p, v),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasRestrictions },
			Description: "hasValue restriction entails the property assertion",
		},
	}
}

func clsHV2() rule.Rule {
	return rule.Rule{
		Name: "cls_hv2",
		Body: []term.Pattern{
			pat(c1, vocab.OWLHasValue, v),
			pat(c1, vocab.OWLOnProperty, p),
			pat(x, p, v),
		},
		Head: pat(x, vocab.RDFType, c1),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasRestrictions },
			Description: "the property assertion entails hasValue class membership",
		},
	}
}

func clsSVF1() rule.Rule {
	return rule.Rule{
		Name: "cls_svf1",
		Body: []term.Pattern{
			pat(c1, vocab.OWLSomeValuesFrom, c2),
			pat(c1, vocab.OWLOnProperty, p),
			pat(u, p, v),
			pat(v, vocab.RDFType, c2),
		},
		Head: pat(u, vocab.RDFType, c1),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasRestrictions },
			Description: "someValuesFrom restriction entails membership when a filler of the right class exists",
		},
	}
}

// clsSVF2 is the owl:Thing-filler special case: any value at all satisfies
// someValuesFrom owl:Thing. The filler must match owl:Thing exactly (see
// spec.md §9 open question); a restriction with any other filler does not
// match this rule, and no error is raised for it.
func clsSVF2() rule.Rule {
	return rule.Rule{
		Name: "cls_svf2",
		Body: []term.Pattern{
			pat(c1, vocab.OWLSomeValuesFrom, vocab.OWLThing),
			pat(c1, vocab.OWLOnProperty, p),
			pat(u, p, v),
		},
		Head: pat(u, vocab.RDFType, c1),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasRestrictions },
			Description: "someValuesFrom owl:Thing is satisfied by any filler",
		},
	}
}

func clsAVF() rule.Rule {
	return rule.Rule{
		Name: "cls_avf",
		Body: []term.Pattern{
			pat(c1, vocab.OWLAllValuesFrom, c2),
			pat(c1, vocab.OWLOnProperty, p),
			pat(u, vocab.RDFType, c1),
			pat(u, p, v),
		},
		Head: pat(v, vocab.RDFType, c2),
		Meta: rule.Metadata{
			Profile:     rule.OWL2RL,
			Applicable:  func(i *schema.Info) bool { return i.HasRestrictions },
			Description: "allValuesFrom restriction entails filler class membership",
		},
	}
}

// Specialize produces, for a property-parameterized rule, one specialized
// rule per property IRI in the matching schema list (spec.md §4.C step 3):
// the property slot is bound to a concrete IRI and the `rdf:type
// <characteristic>` antecedent is dropped, since it is already known true by
// construction. Specialization is defined only for the six property-
// characteristic rules, the ones whose SchemaInfo carries an exact matching
// list (TransitiveProperties, SymmetricProperties, FunctionalProperties,
// InverseFunctionalProperties, InversePairs); the restriction rules
// (cls_hv1/hv2/svf1/svf2, cls_avf) have no corresponding SchemaInfo list to
// specialize against and stay generic.
func Specialize(name string, info *schema.Info) []rule.Rule {
	switch name {
	case "prp_trp":
		return specializeUnary(info.TransitiveProperties, "prp_trp", func(prop term.IRI) rule.Rule {
			return rule.Rule{
				Name:       "prp_trp_" + localName(prop),
				Body:       []term.Pattern{pat(x, prop, y), pat(y, prop, z)},
				Head:       pat(x, prop, z),
				Meta: rule.Metadata{Profile: rule.OWL2RL, Applicable: always,
					Description: "specialized transitivity for " + string(prop)},
			}
		})
	case "prp_symp":
		return specializeUnary(info.SymmetricProperties, "prp_symp", func(prop term.IRI) rule.Rule {
			return rule.Rule{
				Name:       "prp_symp_" + localName(prop),
				Body:       []term.Pattern{pat(x, prop, y)},
				Head:       pat(y, prop, x),
				Meta: rule.Metadata{Profile: rule.OWL2RL, Applicable: always,
					Description: "specialized symmetry for " + string(prop)},
			}
		})
	case "prp_fp":
		return specializeUnary(info.FunctionalProperties, "prp_fp", func(prop term.IRI) rule.Rule {
			return rule.Rule{
				Name:       "prp_fp_" + localName(prop),
				Body:       []term.Pattern{pat(x, prop, y1), pat(x, prop, y2)},
				Head:       pat(y1, vocab.OWLSameAs, y2),
				Conditions: []rule.Condition{rule.NotEqual{A: y1, B: y2}},
				Meta: rule.Metadata{Profile: rule.OWL2RL, Applicable: always,
					Description: "specialized functionality for " + string(prop)},
			}
		})
	case "prp_ifp":
		return specializeUnary(info.InverseFunctionalProperties, "prp_ifp", func(prop term.IRI) rule.Rule {
			return rule.Rule{
				Name:       "prp_ifp_" + localName(prop),
				Body:       []term.Pattern{pat(x1, prop, y), pat(x2, prop, y)},
				Head:       pat(x1, vocab.OWLSameAs, x2),
				Conditions: []rule.Condition{rule.NotEqual{A: x1, B: x2}},
				Meta: rule.Metadata{Profile: rule.OWL2RL, Applicable: always,
					Description: "specialized inverse-functionality for " + string(prop)},
			}
		})
	case "prp_inv1":
		out := make([]rule.Rule, 0, len(info.InversePairs))
		for _, pair := range info.InversePairs {
			a, b := term.IRI(pair.A), term.IRI(pair.B)
			out = append(out, rule.Rule{
				Name:       "prp_inv1_" + localName(a) + "_" + localName(b),
				Body:       []term.Pattern{pat(x, a, y)},
				Head:       pat(y, b, x),
				Meta: rule.Metadata{Profile: rule.OWL2RL, Applicable: always,
					Description: "specialized inverse propagation " + pair.A + " -> " + pair.B},
			})
		}
		return out
	case "prp_inv2":
		out := make([]rule.Rule, 0, len(info.InversePairs))
		for _, pair := range info.InversePairs {
			a, b := term.IRI(pair.A), term.IRI(pair.B)
			out = append(out, rule.Rule{
				Name:       "prp_inv2_" + localName(a) + "_" + localName(b),
				Body:       []term.Pattern{pat(x, b, y)},
				Head:       pat(y, a, x),
				Meta: rule.Metadata{Profile: rule.OWL2RL, Applicable: always,
					Description: "specialized inverse propagation " + pair.B + " -> " + pair.A},
			})
		}
		return out
	default:
		return nil
	}
}

// SpecializableNames lists every rule name Specialize understands.
func SpecializableNames() []string {
	return []string{"prp_trp", "prp_symp", "prp_fp", "prp_ifp", "prp_inv1", "prp_inv2"}
}

func specializeUnary(props []string, _ string, build func(term.IRI) rule.Rule) []rule.Rule {
	out := make([]rule.Rule, 0, len(props))
	for _, p := range props {
		out = append(out, build(term.IRI(p)))
	}
	return out
}

// localName extracts a deterministic, filesystem-and-identifier-safe suffix
// from an IRI for specialized rule names like "prp_trp_contains".
func localName(iri term.IRI) string {
	s := string(iri)
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '#', '/':
			return s[i+1:]
		}
	}
	return s
}
