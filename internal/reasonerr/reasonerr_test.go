package reasonerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfreason/reasoner/internal/reasonerr"
)

func TestError_IncludesOpKindAndMessage(t *testing.T) {
	err := reasonerr.New(reasonerr.InvalidProfile, "compiler.Compile", nil, "unknown profile %q", "bogus")
	require.Contains(t, err.Error(), "compiler.Compile")
	require.Contains(t, err.Error(), "invalid_profile")
	require.Contains(t, err.Error(), `unknown profile "bogus"`)
}

func TestError_WrapsCauseInMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := reasonerr.New(reasonerr.StorageFailure, "derivedstore.Insert", cause, "insert failed")
	require.Contains(t, err.Error(), "disk full")
	require.Equal(t, cause, err.Unwrap())
}

func TestIs_MatchesWrappedKind(t *testing.T) {
	err := reasonerr.New(reasonerr.UnsafeRule, "rule.Validate", nil, "head variable unbound")
	require.True(t, reasonerr.Is(err, reasonerr.UnsafeRule))
	require.False(t, reasonerr.Is(err, reasonerr.InvalidMode))
}

func TestIs_DoesNotUnwindErrorsJoin(t *testing.T) {
	leaf := reasonerr.New(reasonerr.NotFound, "cache.Get", nil, "miss")
	wrapped := errors.Join(errors.New("context"), leaf)
	// errors.Join does not implement a single-cause Unwrap() error, so Is
	// should fail closed rather than panic.
	require.False(t, reasonerr.Is(wrapped, reasonerr.NotFound))
}

func TestIs_FalseForPlainError(t *testing.T) {
	require.False(t, reasonerr.Is(errors.New("plain"), reasonerr.NotFound))
}

func TestKind_StringCoversEveryKind(t *testing.T) {
	kinds := []reasonerr.Kind{
		reasonerr.InvalidProfile, reasonerr.InvalidMode, reasonerr.MissingOption,
		reasonerr.UnknownRules, reasonerr.InvalidIRI, reasonerr.UnsafeRule,
		reasonerr.InvalidPatternStructure, reasonerr.UnsatisfiableCondition,
		reasonerr.MaxIterationsExceeded, reasonerr.LookupFailed, reasonerr.NotFound,
		reasonerr.StorageFailure, reasonerr.InvalidTransition,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		require.NotEqual(t, "unknown", s)
		require.False(t, seen[s], "duplicate string for kind %d", k)
		seen[s] = true
	}
}
