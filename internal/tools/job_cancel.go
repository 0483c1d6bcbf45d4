package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/cancel"
)

func (s *Surface) handleJobCancel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	jobID := argString(args, "job_id", "")
	if jobID == "" {
		return mcp.NewToolResultError("job_id must not be empty"), nil
	}

	outcome, err := cancel.Cancel(s.Registry, jobID)
	if err != nil {
		return jsonResult(map[string]any{
			"job_id":   jobID,
			"status":   "running",
			"canceled": false,
			"reason":   err.Error(),
		})
	}

	switch outcome {
	case cancel.OutcomeNotFound:
		return mcp.NewToolResultError("unknown job id: " + jobID), nil
	case cancel.OutcomeAlreadyFinished:
		snap, _ := s.Registry.Snapshot(jobID)
		return jsonResult(map[string]any{
			"job_id":   jobID,
			"status":   snap.Status.String(),
			"canceled": false,
		})
	case cancel.OutcomeUnsupported:
		snap, _ := s.Registry.Snapshot(jobID)
		return jsonResult(map[string]any{
			"job_id":   jobID,
			"status":   snap.Status.String(),
			"canceled": false,
			"reason":   "signal-based cancellation is unsupported on this platform",
		})
	default:
		snap, _ := s.Registry.Snapshot(jobID)
		return jsonResult(map[string]any{
			"job_id":   jobID,
			"status":   snap.Status.String(),
			"canceled": true,
		})
	}
}
