// Package registry implements Component B (Job Registry) and Component E
// (Output Accessor) from spec.md §4.B / §4.E: the mutable store of JobRecords
// with per-job incremental and byte-range read cursors.
package registry

import "time"

// Status is a JobRecord's lifecycle state (spec.md §3, §4.D state machine).
type Status int

const (
	StatusRunning Status = iota
	StatusCompleted
	StatusFailed
	StatusTimedOut
	StatusCanceled
	StatusDenied
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	case StatusCanceled:
		return "canceled"
	case StatusDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is one of the absorbing states a job transitions
// to from Running (spec.md §4.D "Terminal states are absorbing").
func (s Status) Terminal() bool {
	return s != StatusRunning
}

// ParseStatus maps a wire-protocol status_filter string back to a Status
// (spec.md §4.I enhanced_terminal_job_list status_filter).
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "running":
		return StatusRunning, true
	case "completed":
		return StatusCompleted, true
	case "failed":
		return StatusFailed, true
	case "timed_out":
		return StatusTimedOut, true
	case "canceled":
		return StatusCanceled, true
	case "denied":
		return StatusDenied, true
	default:
		return StatusRunning, false
	}
}

// JobRecord is one record per started (or denied) command (spec.md §3).
// Field names here are internal; the Tool Surface (internal/tools) maps them
// onto the normative wire field names.
type JobRecord struct {
	ID           string
	Command      string
	Summary      string
	Shell        string
	Cwd          string
	EnvOverrides map[string]string
	Tags         []string

	StartedAt  time.Time
	FinishedAt time.Time // zero value means "absent"

	Status   Status
	ExitCode *int
	Pid      *int

	OutputLimit int // bounds PreviewOutput (spec.md §3); does not bound full_output

	output          *outputBuffer
	readCursor      int  // byte offset into full_output; mutated only by the reader path
	cancelRequested bool // set by the Cancellation Service; read by the Execution Loop's finalizer
}

// FullLen returns len(full_output) at the moment of the call.
func (r *JobRecord) FullLen() int {
	return r.output.len()
}

// PreviewOutput returns full_output[0 .. min(len, OutputLimit)], the
// invariant spec.md §3/§8 requires to hold "at every observation point."
func (r *JobRecord) PreviewOutput() []byte {
	limit := r.OutputLimit
	if limit <= 0 {
		limit = r.FullLen()
	}
	data, _ := r.output.readRange(0, limit)
	return data
}

// Output returns a snapshot copy of the complete full_output buffer at the
// moment of the call. Used by the execution loop to build its Result; never
// used by list() (spec.md §4.B "Out-of-scope operations").
func (r *JobRecord) Output() []byte {
	return r.output.readAll()
}

// Summary is the lightweight projection built by summarize for list() (spec.md §4.B):
// every JobRecord field except full_output.
type Summary struct {
	ID           string
	Command      string
	CommandSummary string
	Shell        string
	Cwd          string
	EnvOverrides map[string]string
	Tags         []string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       Status
	ExitCode     *int
	Pid          *int

	// OutputPreview is the first 100 UTF-8 scalar values of full_output,
	// computed fresh at list time; it is the only output-derived field a
	// summary carries, keeping list() cost bounded (spec.md §4.B, §8
	// "Listing cost bound").
	OutputPreview string
}

func summarize(r *JobRecord) Summary {
	preview, _ := r.output.readRange(0, 512) // over-read raw bytes, then trim to 100 runes below
	return Summary{
		ID:             r.ID,
		Command:        r.Command,
		CommandSummary: r.Summary,
		Shell:          r.Shell,
		Cwd:            r.Cwd,
		EnvOverrides:   r.EnvOverrides,
		Tags:           append([]string(nil), r.Tags...),
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Status:         r.Status,
		ExitCode:       r.ExitCode,
		Pid:            r.Pid,
		OutputPreview:  firstRunes(preview, 100),
	}
}

// firstRunes returns the first n UTF-8 scalar values of b, decoding
// defensively so an invalid trailing byte sequence never panics.
func firstRunes(b []byte, n int) string {
	out := make([]rune, 0, n)
	for _, r := range string(b) {
		if len(out) >= n {
			break
		}
		out = append(out, r)
	}
	return string(out)
}

// truncateSummary returns the first 100 UTF-8 scalar values of command, with
// an ellipsis appended if it was truncated (spec.md §3 "summary").
func truncateSummary(command string) string {
	const limit = 100
	runes := []rune(command)
	if len(runes) <= limit {
		return command
	}
	return string(runes[:limit]) + "…"
}
