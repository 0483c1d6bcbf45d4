package execloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
)

type recordingSink struct {
	jobID  string
	chunks [][]byte
}

func (s *recordingSink) Notify(jobID string, chunk []byte) error {
	s.jobID = jobID
	s.chunks = append(s.chunks, chunk)
	return nil
}

func TestRun_CompletesSynchronouslyForFastCommand(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{
		Command: "echo hello",
		Shell:   "sh",
		OutputLimit: 1000,
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	res := Run(reg, rec, sink, Params{
		AsyncThreshold: 50 * time.Second,
		HardTimeout:    10 * time.Second,
		PollInterval:   20 * time.Millisecond,
	})

	require.NotNil(t, res)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 0, *res.ExitCode)
	assert.Contains(t, string(res.Output), "hello")

	got, ok := reg.Get(rec.ID)
	require.True(t, ok)
	assert.True(t, got.Status.Terminal())
	assert.Equal(t, registry.StatusCompleted, got.Status)
}

func TestRun_NonZeroExitIsFailed(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{
		Command: "exit 7",
		Shell:   "sh",
	})
	require.NoError(t, err)

	res := Run(reg, rec, nil, Params{
		AsyncThreshold: 50 * time.Second,
		HardTimeout:    10 * time.Second,
		PollInterval:   20 * time.Millisecond,
	})

	require.NotNil(t, res)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 7, *res.ExitCode)
}

func TestRun_HardTimeoutKillsAndFinalizes(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{
		Command: "sleep 5",
		Shell:   "sh",
	})
	require.NoError(t, err)

	start := time.Now()
	res := Run(reg, rec, nil, Params{
		AsyncThreshold: 50 * time.Second,
		HardTimeout:    150 * time.Millisecond,
		PollInterval:   20 * time.Millisecond,
	})
	elapsed := time.Since(start)

	require.NotNil(t, res)
	assert.Equal(t, OutcomeTimedOut, res.Outcome)
	assert.Less(t, elapsed, 4*time.Second)

	got, ok := reg.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, registry.StatusTimedOut, got.Status)
}

func TestRun_ForceSyncBypassesHandoffEvenPastThreshold(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{
		Command: "echo done",
		Shell:   "sh",
	})
	require.NoError(t, err)

	res := Run(reg, rec, nil, Params{
		ForceSync:      true,
		AsyncThreshold: 50 * time.Second,
		HardTimeout:    10 * time.Second,
		PollInterval:   20 * time.Millisecond,
	})

	require.NotNil(t, res)
	assert.NotEqual(t, OutcomeHandoff, res.Outcome)
}

func TestRun_SpawnErrorFinalizesAsFailed(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{
		Command: "echo hi",
		Shell:   "/no/such/shell/binary",
	})
	require.NoError(t, err)

	res := Run(reg, rec, nil, Params{
		AsyncThreshold: 50 * time.Second,
		HardTimeout:    10 * time.Second,
		PollInterval:   20 * time.Millisecond,
	})

	require.NotNil(t, res)
	assert.Equal(t, OutcomeFailed, res.Outcome)

	got, ok := reg.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, registry.StatusFailed, got.Status)
}

func TestRun_NotifiesSinkForEachChunk(t *testing.T) {
	reg := registry.New()
	rec, err := reg.Register(registry.RegisterParams{
		Command: "echo chunked",
		Shell:   "sh",
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	res := Run(reg, rec, sink, Params{
		Stream:         true,
		AsyncThreshold: 50 * time.Second,
		HardTimeout:    10 * time.Second,
		PollInterval:   20 * time.Millisecond,
	})

	require.NotNil(t, res)

	// stream mode hands off at once; the chunks reach the sink from the
	// background continuation, which finalizes the job after the last one.
	require.Eventually(t, func() bool {
		snap, ok := reg.Snapshot(rec.ID)
		return ok && snap.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, rec.ID, sink.jobID)
	assert.NotEmpty(t, sink.chunks)
}
