package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
)

func TestRegister_StartsRunningWithEmptyOutput(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "echo hi", Shell: "bash", Cwd: "/tmp"})
	require.NoError(t, err)

	assert.Equal(t, registry.StatusRunning, rec.Status)
	assert.True(t, rec.FinishedAt.IsZero())
	assert.Equal(t, 0, rec.FullLen())
	assert.NotEmpty(t, rec.ID)
}

func TestAppendOutput_PreviewIsPrefixOfFull(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "printf", OutputLimit: 5})
	require.NoError(t, err)

	r.AppendOutput(rec.ID, []byte("hello world"))

	assert.Equal(t, []byte("hello"), rec.PreviewOutput())
	assert.Equal(t, 11, rec.FullLen())
}

func TestAppendOutput_PreviewNeverExceedsFullOutput(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "printf", OutputLimit: 100})
	require.NoError(t, err)

	r.AppendOutput(rec.ID, []byte("short"))

	assert.Equal(t, []byte("short"), rec.PreviewOutput())
}

func TestReadIncremental_NoOverlapNoGaps(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "cmd"})
	require.NoError(t, err)

	r.AppendOutput(rec.ID, []byte("abc"))
	first, ok := r.ReadIncremental(rec.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), first)

	second, ok := r.ReadIncremental(rec.ID)
	require.True(t, ok)
	assert.Empty(t, second)

	r.AppendOutput(rec.ID, []byte("def"))
	third, ok := r.ReadIncremental(rec.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("def"), third)

	concatenated := append(append([]byte{}, first...), third...)
	assert.Equal(t, []byte("abcdef"), concatenated)
}

func TestReadRange_OffsetAndLimitSemantics(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "cmd", OutputLimit: 1000})
	require.NoError(t, err)

	data := make([]byte, 10000)
	for i := range data {
		data[i] = 'x'
	}
	r.AppendOutput(rec.ID, data)

	// preview truncated to output_limit
	assert.Len(t, rec.PreviewOutput(), 1000)

	slice, hasMore, total, ok := r.ReadRange(rec.ID, 0, 1000)
	require.True(t, ok)
	assert.Len(t, slice, 1000)
	assert.True(t, hasMore)
	assert.Equal(t, 10000, total)

	slice, hasMore, total, ok = r.ReadRange(rec.ID, 1000, 0)
	require.True(t, ok)
	assert.Len(t, slice, 9000)
	assert.False(t, hasMore)
	assert.Equal(t, 10000, total)

	// offset beyond total yields empty slice, has_more=false
	slice, hasMore, _, ok = r.ReadRange(rec.ID, 20000, 0)
	require.True(t, ok)
	assert.Empty(t, slice)
	assert.False(t, hasMore)
}

func TestReadRange_DoesNotAffectIncrementalCursor(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "cmd"})
	require.NoError(t, err)

	r.AppendOutput(rec.ID, []byte("0123456789"))

	_, _, _, ok := r.ReadRange(rec.ID, 2, 3)
	require.True(t, ok)

	// incremental read still starts from offset 0, unaffected by the range read
	inc, ok := r.ReadIncremental(rec.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("0123456789"), inc)
}

func TestResetCursor_RestartsIncrementalReadsFromZero(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "cmd"})
	require.NoError(t, err)

	r.AppendOutput(rec.ID, []byte("abcdef"))
	_, ok := r.ReadIncremental(rec.ID)
	require.True(t, ok)

	r.ResetCursor(rec.ID)

	inc, ok := r.ReadIncremental(rec.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("abcdef"), inc)
}

func TestFinalize_SetsTerminalStateAndFinishedAt(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "cmd"})
	require.NoError(t, err)

	code := 0
	r.Finalize(rec.ID, registry.StatusCompleted, &code)

	assert.Equal(t, registry.StatusCompleted, rec.Status)
	assert.False(t, rec.FinishedAt.IsZero())
	require.NotNil(t, rec.ExitCode)
	assert.Equal(t, 0, *rec.ExitCode)
	assert.True(t, rec.StartedAt.Before(rec.FinishedAt) || rec.StartedAt.Equal(rec.FinishedAt))
}

func TestAddTags_DedupesPreservingOrder(t *testing.T) {
	r := registry.New()
	rec, err := r.Register(registry.RegisterParams{Command: "cmd", Tags: []string{"a", "b"}})
	require.NoError(t, err)

	r.AddTags(rec.ID, []string{"b", "c"})

	assert.Equal(t, []string{"a", "b", "c"}, rec.Tags)
}

func TestList_FiltersAndSortsWithoutCloningFullOutput(t *testing.T) {
	r := registry.New()

	a, err := r.Register(registry.RegisterParams{Command: "a", Cwd: "/x", Tags: []string{"ci"}})
	require.NoError(t, err)
	r.AppendOutput(a.ID, make([]byte, 1<<20)) // 1MiB — must not be cloned by List

	b, err := r.Register(registry.RegisterParams{Command: "b", Cwd: "/y"})
	require.NoError(t, err)
	r.Finalize(b.ID, registry.StatusCompleted, intPtr(0))

	all := r.List(registry.ListFilters{}, registry.SortNewestFirst)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID) // registered later, newest-first

	filtered := r.List(registry.ListFilters{Tag: "ci"}, registry.SortOldestFirst)
	require.Len(t, filtered, 1)
	assert.Equal(t, a.ID, filtered[0].ID)

	byCwd := r.List(registry.ListFilters{Cwd: "/y"}, registry.SortOldestFirst)
	require.Len(t, byCwd, 1)
	assert.Equal(t, b.ID, byCwd[0].ID)

	byStatus := r.List(registry.ListFilters{Statuses: []registry.Status{registry.StatusCompleted}}, registry.SortOldestFirst)
	require.Len(t, byStatus, 1)
	assert.Equal(t, b.ID, byStatus[0].ID)
}

func TestRegisterDenied_StartedEqualsFinished(t *testing.T) {
	r := registry.New()
	rec := r.RegisterDenied("rm -rf /", "bash", "/tmp", nil)

	assert.Equal(t, registry.StatusDenied, rec.Status)
	assert.Equal(t, rec.StartedAt, rec.FinishedAt)
}

func intPtr(v int) *int { return &v }
