package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/execloop"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/validator"
)

func (s *Surface) handleEnhancedTerminal(srv *server.MCPServer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		command := argString(args, "command", "")
		cwd := argString(args, "cwd", ".")
		shell := argString(args, "shell", "bash")
		outputLimit := argInt(args, "output_limit", 16384)
		forceSync := argBool(args, "force_sync", false)
		stream := argBool(args, "stream", false)
		envVars := argStringMap(args, "env_vars")
		tags := argStringSlice(args, "tags")
		customDenylist := argStringSlice(args, "custom_denylist")

		defaultAsyncSecs := int(s.Config.AsyncThreshold / time.Second)
		asyncSecs := argInt(args, "async_threshold_secs", defaultAsyncSecs)

		v := validator.New()
		v.Assert(command != "", "command must not be empty")
		v.Assert(outputLimit >= 0, "output_limit must be non-negative")
		v.Assert(asyncSecs >= 0, "async_threshold_secs must be non-negative")
		if err := v.Err(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		denyResult := s.Matcher.Evaluate(command, customDenylist)
		if !denyResult.Allowed {
			rec := s.Registry.RegisterDenied(command, shell, cwd, tags)
			s.Log.Info("command denied", zap.String("job_id", rec.ID), zap.String("pattern", denyResult.Pattern))
			return jsonResult(map[string]any{
				"status":          "denied",
				"matched_pattern": denyResult.Pattern,
				"reason":          "command matched a denylist pattern",
			})
		}

		rec, err := s.Registry.Register(registry.RegisterParams{
			Command:      command,
			Shell:        shell,
			Cwd:          cwd,
			EnvOverrides: envVars,
			Tags:         tags,
			OutputLimit:  outputLimit,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		sink := &sessionSink{srv: srv, ctx: ctx}

		res := execloop.Run(s.Registry, rec, sink, execloop.Params{
			ForceSync:      forceSync,
			Stream:         stream,
			AsyncThreshold: time.Duration(asyncSecs) * time.Second,
			HardTimeout:    s.Config.HardTimeout,
			PollInterval:   s.Config.PollInterval,
			Log:            s.Log,
		})

		durationSecs := durationSince(rec.StartedAt)

		if res.Outcome == execloop.OutcomeHandoff {
			return jsonResult(map[string]any{
				"status":        "switched_to_background",
				"job_id":        res.JobID,
				"duration_secs": durationSecs,
				"output":        string(res.Output),
			})
		}

		// output_limit bounds the synchronous response body itself, not just
		// preview_output (spec.md §9 "Open question — output limit scope");
		// full_output stays available in full via job_status.
		truncated := outputLimit > 0 && len(res.Output) > outputLimit
		output := res.Output
		if truncated {
			output = output[:outputLimit]
		}

		payload := map[string]any{
			"status":        outcomeStatusString(res.Outcome),
			"job_id":        res.JobID,
			"duration_secs": durationSecs,
			"output":        string(output),
		}
		if res.ExitCode != nil {
			payload["exit_code"] = *res.ExitCode
		}
		if truncated {
			payload["truncated"] = true
			payload["preview_output"] = string(output)
		}
		return jsonResult(payload)
	}
}

func outcomeStatusString(o execloop.Outcome) string {
	switch o {
	case execloop.OutcomeCompleted:
		return "completed"
	case execloop.OutcomeFailed:
		return "failed"
	case execloop.OutcomeTimedOut:
		return "timed_out"
	case execloop.OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

func durationSince(t time.Time) float64 {
	return time.Since(t).Seconds()
}
