// Package reasonerconfig defines ReasoningConfig (spec.md §3), its presets,
// and the capabilities derived from it, following the teacher's
// internal/config convention of yaml-tagged structs with preset
// constructors and explicit validation returning wrapped errors.
package reasonerconfig

import (
	"github.com/rdfreason/reasoner/internal/reasonerr"
	"github.com/rdfreason/reasoner/internal/rule"
)

// Profile is one of the four wire profile names (spec.md §6).
type Profile string

const (
	ProfileRDFS   Profile = "rdfs"
	ProfileOWL2RL Profile = "owl2rl"
	ProfileCustom Profile = "custom"
	ProfileNone   Profile = "none"
)

// Mode is one of the four wire mode names (spec.md §6).
type Mode string

const (
	ModeMaterialized Mode = "materialized"
	ModeQueryTime    Mode = "query_time"
	ModeHybrid       Mode = "hybrid"
	ModeNone         Mode = "none"
)

// Config is ReasoningConfig. ModeOpts carries mode-specific knobs, including
// the eq_ref materialization-granularity knob from spec.md §9's open
// question ("materialize_eq_ref", bool).
type Config struct {
	Profile    Profile        `yaml:"profile"`
	Mode       Mode           `yaml:"mode"`
	ModeOpts   map[string]any `yaml:"mode_opts,omitempty"`
	CustomRules []rule.Rule   `yaml:"-"` // required when Profile == ProfileCustom
	Exclusions []string       `yaml:"exclusions,omitempty"`
}

// Validate checks the profile/mode names and the custom-profile precondition.
func Validate(c Config) error {
	switch c.Profile {
	case ProfileRDFS, ProfileOWL2RL, ProfileCustom, ProfileNone:
	default:
		return reasonerr.New(reasonerr.InvalidProfile, "reasonerconfig.Validate", nil, "unknown profile %q", c.Profile)
	}
	switch c.Mode {
	case ModeMaterialized, ModeQueryTime, ModeHybrid, ModeNone:
	default:
		return reasonerr.New(reasonerr.InvalidMode, "reasonerconfig.Validate", nil, "unknown mode %q", c.Mode)
	}
	if c.Profile == ProfileCustom && len(c.CustomRules) == 0 {
		return reasonerr.New(reasonerr.MissingOption, "reasonerconfig.Validate", nil, "profile custom requires CustomRules")
	}
	return nil
}

// RequiresMaterialization reports whether the configured mode needs a
// precomputed closure rather than query-time reasoning.
func (c Config) RequiresMaterialization() bool {
	return c.Mode == ModeMaterialized || c.Mode == ModeHybrid
}

// SupportsIncremental reports whether incremental addition is meaningful
// under this config (it never is for mode "none").
func (c Config) SupportsIncremental() bool {
	return c.Mode != ModeNone
}

// RequiresBackwardChaining reports whether deletions need the backward-trace
// plus forward-rederivation pipeline (anything that materializes does).
func (c Config) RequiresBackwardChaining() bool {
	return c.RequiresMaterialization()
}

// MaterializeEqRef reports the resolved value of the eq_ref
// materialization-granularity knob (spec.md §9), defaulting to false
// (deferred to query time) when unset.
func (c Config) MaterializeEqRef() bool {
	v, ok := c.ModeOpts["materialize_eq_ref"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// --- Presets ---

// FullMaterialization eagerly computes and stores the complete OWL 2 RL closure.
func FullMaterialization() Config {
	return Config{Profile: ProfileOWL2RL, Mode: ModeMaterialized}
}

// RDFSOnly restricts inference to the RDFS profile, materialized.
func RDFSOnly() Config {
	return Config{Profile: ProfileRDFS, Mode: ModeMaterialized}
}

// MinimalMemory defers everything to query time, trading latency for footprint.
func MinimalMemory() Config {
	return Config{Profile: ProfileOWL2RL, Mode: ModeQueryTime}
}

// Balanced selects the OWL 2 RL profile in hybrid mode. No component divides
// the rule set between materialization and query time by mode: hybrid
// reports RequiresMaterialization, and Materialize computes the full OWL 2 RL
// closure.
func Balanced() Config {
	return Config{Profile: ProfileOWL2RL, Mode: ModeHybrid}
}

// None disables reasoning entirely.
func None() Config {
	return Config{Profile: ProfileNone, Mode: ModeNone}
}
