package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RegisterParams are the inputs to Register.
type RegisterParams struct {
	Command      string
	Shell        string
	Cwd          string
	EnvOverrides map[string]string
	Tags         []string
	OutputLimit  int
}

// Registry is the singleton, mutex-guarded store of JobRecords (spec.md
// §4.B, §5). Its lock is held only for short operations — map lookups,
// scalar field mutation, and starting/ending a buffer read/append — never
// for the duration of a command's execution.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*JobRecord
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{jobs: make(map[string]*JobRecord)}
}

// Register creates a Running JobRecord with started_at = now, an empty
// output buffer, and read_cursor = 0 (spec.md §4.B).
func (r *Registry) Register(p RegisterParams) (*JobRecord, error) {
	id, err := newJobID()
	if err != nil {
		return nil, fmt.Errorf("generate job id: %w", err)
	}

	rec := &JobRecord{
		ID:           id,
		Command:      p.Command,
		Summary:      truncateSummary(p.Command),
		Shell:        p.Shell,
		Cwd:          p.Cwd,
		EnvOverrides: p.EnvOverrides,
		Tags:         dedupeTags(p.Tags),
		StartedAt:    time.Now(),
		Status:       StatusRunning,
		OutputLimit:  p.OutputLimit,
		output:       &outputBuffer{},
	}

	r.mu.Lock()
	r.jobs[id] = rec
	r.mu.Unlock()

	return rec, nil
}

// RegisterDenied creates and stores a terminal Denied record: spec.md §3
// requires started_at and finished_at to be equal for Denied jobs, and that
// they never enter Running.
func (r *Registry) RegisterDenied(command, shell, cwd string, tags []string) *JobRecord {
	now := time.Now()
	rec := &JobRecord{
		ID:         "denied_" + uuid.NewString(),
		Command:    command,
		Summary:    truncateSummary(command),
		Shell:      shell,
		Cwd:        cwd,
		Tags:       dedupeTags(tags),
		StartedAt:  now,
		FinishedAt: now,
		Status:     StatusDenied,
		output:     &outputBuffer{},
	}

	r.mu.Lock()
	r.jobs[rec.ID] = rec
	r.mu.Unlock()

	return rec
}

// Get returns the JobRecord for id, if any. The returned pointer's immutable
// fields (Command, Shell, Cwd, ...) are safe to read without further locking,
// but Status/ExitCode/Pid/FinishedAt/Tags are mutated after Register by
// SetPid/Finalize/AddTags under the registry lock — callers that need those
// fields must use Snapshot instead of reading rec directly.
func (r *Registry) Get(id string) (*JobRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	return rec, ok
}

// JobSnapshot is a lock-protected, point-in-time copy of the JobRecord
// fields the execution loop mutates after Register (spec.md §5 "Job
// Registry is the only shared mutable state"): reading them directly off a
// *JobRecord from another goroutine races with SetPid/Finalize/AddTags.
type JobSnapshot struct {
	ID           string
	Command      string
	Summary      string
	Shell        string
	Cwd          string
	EnvOverrides map[string]string
	Tags         []string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       Status
	ExitCode     *int
	Pid          *int
	OutputLimit  int
}

// Snapshot returns a JobSnapshot for id, if any.
func (r *Registry) Snapshot(id string) (JobSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	if !ok {
		return JobSnapshot{}, false
	}
	return JobSnapshot{
		ID:           rec.ID,
		Command:      rec.Command,
		Summary:      rec.Summary,
		Shell:        rec.Shell,
		Cwd:          rec.Cwd,
		EnvOverrides: rec.EnvOverrides,
		Tags:         append([]string(nil), rec.Tags...),
		StartedAt:    rec.StartedAt,
		FinishedAt:   rec.FinishedAt,
		Status:       rec.Status,
		ExitCode:     rec.ExitCode,
		Pid:          rec.Pid,
		OutputLimit:  rec.OutputLimit,
	}, true
}

// SetPid records the spawned process id on a Running job.
func (r *Registry) SetPid(id string, pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.jobs[id]; ok {
		p := pid
		rec.Pid = &p
	}
}

// AppendOutput appends bytes to full_output (spec.md §4.B). The registry lock
// is held only for the job lookup; the write itself runs under the buffer's
// own finer-grained lock, and
// ordering across appends for a single job is guaranteed by the execution
// loop (and its handoff continuation) being the buffer's sole writer.
func (r *Registry) AppendOutput(id string, data []byte) {
	r.mu.Lock()
	rec, ok := r.jobs[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	rec.output.write(data)
}

// Finalize sets the terminal status, finished_at and exit code on a job
// (spec.md §4.B); the pid is recorded separately by SetPid. It is the only
// operation that transitions a record out of Running.
func (r *Registry) Finalize(id string, status Status, exitCode *int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.jobs[id]
	if !ok {
		return
	}
	rec.Status = status
	rec.FinishedAt = time.Now()
	rec.ExitCode = exitCode
}

// ReadIncremental returns full_output[read_cursor..] then advances read_cursor
// to length(full_output) (spec.md §4.B, §4.E "Incremental tail").
func (r *Registry) ReadIncremental(id string) (data []byte, ok bool) {
	r.mu.Lock()
	rec, exists := r.jobs[id]
	r.mu.Unlock()
	if !exists {
		return nil, false
	}

	data, total := rec.output.readRange(rec.readCursor, 0)

	r.mu.Lock()
	rec.readCursor = total
	r.mu.Unlock()

	return data, true
}

// ReadRange returns full_output[offset .. offset+effectiveLimit] without
// touching read_cursor (spec.md §4.B, §4.E "Byte range"). limit == 0 means
// "to end". hasMore reports whether bytes remain beyond what was returned.
func (r *Registry) ReadRange(id string, offset, limit int) (data []byte, hasMore bool, total int, ok bool) {
	rec, exists := r.Get(id)
	if !exists {
		return nil, false, 0, false
	}

	data, total = rec.output.readRange(offset, limit)
	hasMore = offset+len(data) < total
	return data, hasMore, total, true
}

// ResetCursor sets read_cursor = 0, used when a caller requests a full-mode
// read (spec.md §4.B, §4.E "Switching caller semantics").
func (r *Registry) ResetCursor(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.jobs[id]; ok {
		rec.readCursor = 0
	}
}

// RequestCancel records that a cancellation was requested for id, so the
// Execution Loop's finalizer transitions the job to Canceled rather than
// Failed once the child exits (spec.md §4.F). It is a no-op if the job is
// already terminal or does not exist.
func (r *Registry) RequestCancel(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.jobs[id]; ok && !rec.Status.Terminal() {
		rec.cancelRequested = true
	}
}

// CancelRequested reports whether RequestCancel was called for id.
func (r *Registry) CancelRequested(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[id]
	return ok && rec.cancelRequested
}

// AddTags unions newTags with a job's existing tags, preserving original
// order and deduplicating (spec.md §4.B).
func (r *Registry) AddTags(id string, newTags []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.jobs[id]; ok {
		rec.Tags = dedupeTags(append(append([]string(nil), rec.Tags...), newTags...))
	}
}

// ListFilters narrows List's results.
type ListFilters struct {
	Statuses []Status // nil/empty means "all statuses"
	Tag      string   // "" means "no tag filter"
	Cwd      string   // "" means "no cwd filter"
}

// SortOrder controls List's ordering.
type SortOrder int

const (
	SortNewestFirst SortOrder = iota
	SortOldestFirst
)

// List returns lightweight projections of matching jobs (spec.md §4.B): every
// JobRecord field except full_output, sorted by started_at. It never clones
// full_output — the out-of-scope "bulk cloning" operation this guards against
// (spec.md §4.B "Out-of-scope operations").
func (r *Registry) List(filters ListFilters, order SortOrder) []Summary {
	r.mu.Lock()
	matched := make([]*JobRecord, 0, len(r.jobs))
	for _, rec := range r.jobs {
		if !matchesFilters(rec, filters) {
			continue
		}
		matched = append(matched, rec)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if order == SortOldestFirst {
			return matched[i].StartedAt.Before(matched[j].StartedAt)
		}
		return matched[i].StartedAt.After(matched[j].StartedAt)
	})

	out := make([]Summary, 0, len(matched))
	for _, rec := range matched {
		out = append(out, summarize(rec))
	}
	return out
}

func matchesFilters(rec *JobRecord, f ListFilters) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if rec.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Tag != "" {
		found := false
		for _, t := range rec.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Cwd != "" && rec.Cwd != f.Cwd {
		return false
	}

	return true
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
