package cancel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
)

func TestCancel_UnknownJobReturnsNotFound(t *testing.T) {
	reg := registry.New()
	outcome, err := Cancel(reg, "job_doesnotexist")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, outcome)
}

func TestCancel_AlreadyTerminalShortCircuits(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{Command: "true", Shell: "sh"})
	require.NoError(t, err)
	reg.Finalize(rec.ID, registry.StatusCompleted, nil)

	outcome, err := Cancel(reg, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyFinished, outcome)
}

func TestCancel_RunningWithoutPidRecordsRequestWithoutSignal(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{Command: "sleep 1", Shell: "sh"})
	require.NoError(t, err)

	outcome, err := Cancel(reg, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSignaled, outcome)
	assert.True(t, reg.CancelRequested(rec.ID))
}
