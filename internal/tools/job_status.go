package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/validator"
)

func (s *Surface) handleJobStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	jobID := argString(args, "job_id", "")
	incremental := argBool(args, "incremental", true)
	offset := argInt(args, "offset", 0)
	limit := argInt(args, "limit", 0)

	v := validator.New()
	v.Assert(jobID != "", "job_id must not be empty")
	v.Assert(offset >= 0, "offset must be non-negative")
	v.Assert(limit >= 0, "limit must be non-negative")
	if err := v.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, ok := s.Registry.Snapshot(jobID)
	if !ok {
		return mcp.NewToolResultError("unknown job id: " + jobID), nil
	}

	var (
		mode    string
		data    []byte
		hasMore bool
		total   int
	)

	switch {
	case incremental && offset == 0 && limit == 0:
		mode = "incremental"
		data, _ = s.Registry.ReadIncremental(jobID)
	case offset != 0 || limit != 0:
		mode = "paginated"
		data, hasMore, total, _ = s.Registry.ReadRange(jobID, offset, limit)
	default:
		// Full mode returns the output_limit-bounded preview, not the whole
		// buffer (spec.md §8 "output_limit bounds the preview_output and the
		// size of the synchronous response body").
		mode = "full"
		s.Registry.ResetCursor(jobID)
		if rec, ok := s.Registry.Get(jobID); ok {
			data = rec.PreviewOutput()
		}
		_, _, total, _ = s.Registry.ReadRange(jobID, 0, 0)
	}

	payload := map[string]any{
		"job_id":        snap.ID,
		"command":       snap.Command,
		"summary":       snap.Summary,
		"shell":         snap.Shell,
		"cwd":           snap.Cwd,
		"tags":          snap.Tags,
		"status":        snap.Status.String(),
		"started_at":    snap.StartedAt.Format(time.RFC3339Nano),
		"duration_secs": jobDurationSecs(snap.StartedAt, snap.FinishedAt),
		"mode":          mode,
		"output":        string(data),
	}
	if snap.ExitCode != nil {
		payload["exit_code"] = *snap.ExitCode
	}
	if snap.Pid != nil {
		payload["pid"] = *snap.Pid
	}
	if !snap.FinishedAt.IsZero() {
		payload["finished_at"] = snap.FinishedAt.Format(time.RFC3339Nano)
	}
	if mode == "paginated" {
		payload["has_more"] = hasMore
		payload["total_length"] = total
	}
	if mode == "full" {
		payload["total_length"] = total
	}

	return jsonResult(payload)
}

func jobDurationSecs(startedAt, finishedAt time.Time) float64 {
	if finishedAt.IsZero() {
		return time.Since(startedAt).Seconds()
	}
	return finishedAt.Sub(startedAt).Seconds()
}
