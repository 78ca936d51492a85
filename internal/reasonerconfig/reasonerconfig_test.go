package reasonerconfig_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/reasonerconfig"
	"github.com/rdfreason/reasoner/internal/rule"
)

func TestValidate_RejectsUnknownProfileAndMode(t *testing.T) {
	require.Error(t, reasonerconfig.Validate(reasonerconfig.Config{Profile: "bogus", Mode: reasonerconfig.ModeNone}))
	require.Error(t, reasonerconfig.Validate(reasonerconfig.Config{Profile: reasonerconfig.ProfileRDFS, Mode: "bogus"}))
}

func TestValidate_CustomProfileRequiresRules(t *testing.T) {
	cfg := reasonerconfig.Config{Profile: reasonerconfig.ProfileCustom, Mode: reasonerconfig.ModeMaterialized}
	require.Error(t, reasonerconfig.Validate(cfg))

	cfg.CustomRules = []rule.Rule{{Name: "r"}}
	require.NoError(t, reasonerconfig.Validate(cfg))
}

func TestRequiresMaterialization_MaterializedAndHybridOnly(t *testing.T) {
	require.True(t, reasonerconfig.Config{Mode: reasonerconfig.ModeMaterialized}.RequiresMaterialization())
	require.True(t, reasonerconfig.Config{Mode: reasonerconfig.ModeHybrid}.RequiresMaterialization())
	require.False(t, reasonerconfig.Config{Mode: reasonerconfig.ModeQueryTime}.RequiresMaterialization())
	require.False(t, reasonerconfig.Config{Mode: reasonerconfig.ModeNone}.RequiresMaterialization())
}

func TestSupportsIncremental_FalseOnlyForModeNone(t *testing.T) {
	require.False(t, reasonerconfig.Config{Mode: reasonerconfig.ModeNone}.SupportsIncremental())
	require.True(t, reasonerconfig.Config{Mode: reasonerconfig.ModeQueryTime}.SupportsIncremental())
}

func TestRequiresBackwardChaining_MirrorsMaterialization(t *testing.T) {
	require.Equal(t,
		reasonerconfig.Config{Mode: reasonerconfig.ModeHybrid}.RequiresMaterialization(),
		reasonerconfig.Config{Mode: reasonerconfig.ModeHybrid}.RequiresBackwardChaining())
}

func TestMaterializeEqRef_DefaultsFalse(t *testing.T) {
	require.False(t, reasonerconfig.Config{}.MaterializeEqRef())

	cfg := reasonerconfig.Config{ModeOpts: map[string]any{"materialize_eq_ref": true}}
	require.True(t, cfg.MaterializeEqRef())

	wrongType := reasonerconfig.Config{ModeOpts: map[string]any{"materialize_eq_ref": "yes"}}
	require.False(t, wrongType.MaterializeEqRef())
}

func TestPresets_MatchExpectedProfileAndMode(t *testing.T) {
	require.Equal(t, reasonerconfig.Config{Profile: reasonerconfig.ProfileOWL2RL, Mode: reasonerconfig.ModeMaterialized}, reasonerconfig.FullMaterialization())
	require.Equal(t, reasonerconfig.Config{Profile: reasonerconfig.ProfileRDFS, Mode: reasonerconfig.ModeMaterialized}, reasonerconfig.RDFSOnly())
	require.Equal(t, reasonerconfig.Config{Profile: reasonerconfig.ProfileOWL2RL, Mode: reasonerconfig.ModeQueryTime}, reasonerconfig.MinimalMemory())
	require.Equal(t, reasonerconfig.Config{Profile: reasonerconfig.ProfileOWL2RL, Mode: reasonerconfig.ModeHybrid}, reasonerconfig.Balanced())
	require.Equal(t, reasonerconfig.Config{Profile: reasonerconfig.ProfileNone, Mode: reasonerconfig.ModeNone}, reasonerconfig.None())

	for _, cfg := range []reasonerconfig.Config{
		reasonerconfig.FullMaterialization(), reasonerconfig.RDFSOnly(), reasonerconfig.MinimalMemory(),
		reasonerconfig.Balanced(), reasonerconfig.None(),
	} {
		require.NoError(t, reasonerconfig.Validate(cfg))
	}
}
