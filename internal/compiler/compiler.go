// Package compiler implements spec.md §4.C steps 1-5: filter the catalogue
// by profile and SchemaInfo applicability, specialize property-parameterized
// rules, apply config exclusions, and stamp the result into a
// CompiledRuleSet.
package compiler

import (
	"time"

	"github.com/google/uuid"

	"github.com/rdfreason/reasoner/internal/catalogue"
	"github.com/rdfreason/reasoner/internal/reasonerconfig"
	"github.com/rdfreason/reasoner/internal/reasonerr"
	"github.com/rdfreason/reasoner/internal/rule"
	"github.com/rdfreason/reasoner/internal/schema"
	"github.com/rdfreason/reasoner/internal/telemetry"
)

// CompiledRuleSet is the output of compilation.
type CompiledRuleSet struct {
	Generic       []rule.Rule
	Specialized   []rule.Rule
	Timestamp     time.Time
	Version       string
	SchemaVersion string
}

// ActiveRules returns the rule set the evaluator should actually run: for
// every rule name that produced specializations, the specialized forms
// replace the generic form (avoiding redundant joins); every other generic
// rule passes through unchanged.
func (c *CompiledRuleSet) ActiveRules() []rule.Rule {
	specializedNames := map[string]bool{}
	for _, r := range c.Specialized {
		specializedNames[baseName(r.Name)] = true
	}
	out := make([]rule.Rule, 0, len(c.Generic)+len(c.Specialized))
	for _, r := range c.Generic {
		if !specializedNames[r.Name] {
			out = append(out, r)
		}
	}
	out = append(out, c.Specialized...)
	return out
}

func baseName(specializedName string) string {
	for _, candidate := range catalogue.SpecializableNames() {
		if len(specializedName) > len(candidate) && specializedName[:len(candidate)+1] == candidate+"_" {
			return candidate
		}
	}
	return specializedName
}

// Options configures a single Compile call.
type Options struct {
	Specialize bool // default true
}

// Compile runs the four-step pipeline for cfg against info.
func Compile(cfg reasonerconfig.Config, info *schema.Info, opts Options, tr *telemetry.Tracer) (*CompiledRuleSet, error) {
	if err := reasonerconfig.Validate(cfg); err != nil {
		return nil, err
	}

	var crs *CompiledRuleSet
	err := tr.Span(telemetry.CompileSpan, map[string]any{"profile": string(cfg.Profile)}, func() (map[string]any, error) {
		source, err := sourceRules(cfg)
		if err != nil {
			return nil, err
		}

		generic := filterApplicable(filterProfile(source, cfg.Profile), info)
		generic = applyExclusions(generic, cfg.Exclusions)
		generic = applyEqRefPolicy(generic, cfg)

		var specialized []rule.Rule
		if opts.Specialize {
			for _, name := range catalogue.SpecializableNames() {
				if !containsRule(generic, name) {
					continue
				}
				specialized = append(specialized, catalogue.Specialize(name, info)...)
			}
			specialized = applyExclusions(specialized, cfg.Exclusions)
		}

		crs = &CompiledRuleSet{
			Generic:       generic,
			Specialized:   specialized,
			Timestamp:     timeNow(),
			Version:       uuid.NewString(),
			SchemaVersion: info.Version,
		}
		return map[string]any{
			"generic_count":     len(generic),
			"specialized_count": len(specialized),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	tr.Emit(telemetry.CompileComplete, map[string]any{
		"rule_count": len(crs.Generic) + len(crs.Specialized),
		"version":    crs.Version,
	})
	return crs, nil
}

func sourceRules(cfg reasonerconfig.Config) ([]rule.Rule, error) {
	switch cfg.Profile {
	case reasonerconfig.ProfileNone:
		return nil, nil
	case reasonerconfig.ProfileCustom:
		return cfg.CustomRules, nil
	case reasonerconfig.ProfileRDFS, reasonerconfig.ProfileOWL2RL:
		return catalogue.All(), nil
	default:
		return nil, reasonerr.New(reasonerr.InvalidProfile, "compiler.Compile", nil, "unknown profile %q", cfg.Profile)
	}
}

func filterProfile(rules []rule.Rule, profile reasonerconfig.Profile) []rule.Rule {
	if profile != reasonerconfig.ProfileRDFS {
		return rules
	}
	out := make([]rule.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Meta.Profile == rule.RDFS {
			out = append(out, r)
		}
	}
	return out
}

func filterApplicable(rules []rule.Rule, info *schema.Info) []rule.Rule {
	out := make([]rule.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Applicable(info) {
			out = append(out, r)
		}
	}
	return out
}

func applyExclusions(rules []rule.Rule, exclusions []string) []rule.Rule {
	if len(exclusions) == 0 {
		return rules
	}
	excluded := map[string]bool{}
	for _, name := range exclusions {
		excluded[name] = true
	}
	out := make([]rule.Rule, 0, len(rules))
	for _, r := range rules {
		if !excluded[r.Name] {
			out = append(out, r)
		}
	}
	return out
}

// applyEqRefPolicy realizes spec.md §9's eq_ref open question via
// reasonerconfig.Config.MaterializeEqRef(): by default (false) eq_ref is
// dropped from the materialized set entirely and its reflexivity is left to
// query time; when true, eq_ref stays and catalogue.EqRefExpansion's
// predicate/object-position companions join it so materialization produces
// the axiom's full conclusion.
func applyEqRefPolicy(rules []rule.Rule, cfg reasonerconfig.Config) []rule.Rule {
	if cfg.MaterializeEqRef() {
		if containsRule(rules, "eq_ref") {
			return append(rules, catalogue.EqRefExpansion()...)
		}
		return rules
	}
	out := make([]rule.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Name != "eq_ref" {
			out = append(out, r)
		}
	}
	return out
}

func containsRule(rules []rule.Rule, name string) bool {
	for _, r := range rules {
		if r.Name == name {
			return true
		}
	}
	return false
}

// timeNow is a seam so CompiledRuleSet's Timestamp remains testable without
// depending on wall-clock time directly inside Compile's callers.
var timeNow = time.Now
