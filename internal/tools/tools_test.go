package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/execloop"
)

func TestArgString_DefaultsWhenMissingOrWrongType(t *testing.T) {
	args := map[string]any{"present": "value", "wrong_type": 5}
	assert.Equal(t, "value", argString(args, "present", "fallback"))
	assert.Equal(t, "fallback", argString(args, "missing", "fallback"))
	assert.Equal(t, "fallback", argString(args, "wrong_type", "fallback"))
}

func TestArgInt_HandlesJSONFloat64(t *testing.T) {
	args := map[string]any{"n": float64(42)}
	assert.Equal(t, 42, argInt(args, "n", 0))
	assert.Equal(t, 7, argInt(args, "missing", 7))
}

func TestArgBool_Defaults(t *testing.T) {
	args := map[string]any{"flag": true}
	assert.True(t, argBool(args, "flag", false))
	assert.False(t, argBool(args, "missing", false))
}

func TestArgStringSlice_FiltersNonStrings(t *testing.T) {
	args := map[string]any{"tags": []any{"a", 1, "b"}}
	assert.Equal(t, []string{"a", "b"}, argStringSlice(args, "tags"))
	assert.Nil(t, argStringSlice(args, "missing"))
}

func TestArgStringMap_FiltersNonStringValues(t *testing.T) {
	args := map[string]any{"env": map[string]any{"A": "1", "B": 2}}
	got := argStringMap(args, "env")
	assert.Equal(t, map[string]string{"A": "1"}, got)
}

func TestOutcomeStatusString_CoversAllOutcomes(t *testing.T) {
	assert.Equal(t, "completed", outcomeStatusString(execloop.OutcomeCompleted))
	assert.Equal(t, "failed", outcomeStatusString(execloop.OutcomeFailed))
	assert.Equal(t, "timed_out", outcomeStatusString(execloop.OutcomeTimedOut))
	assert.Equal(t, "canceled", outcomeStatusString(execloop.OutcomeCanceled))
}
