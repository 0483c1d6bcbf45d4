package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
)

func (s *Surface) handleJobList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	maxJobs := argInt(args, "max_jobs", 50)
	statusFilter := argString(args, "status_filter", "")
	tagFilter := argString(args, "tag_filter", "")
	cwdFilter := argString(args, "cwd_filter", "")
	sortOrder := argString(args, "sort_order", "newest")

	var statuses []registry.Status
	if statusFilter != "" {
		st, ok := registry.ParseStatus(statusFilter)
		if !ok {
			return mcp.NewToolResultError("unknown status_filter: " + statusFilter), nil
		}
		statuses = []registry.Status{st}
	}

	order := registry.SortNewestFirst
	if sortOrder == "oldest" {
		order = registry.SortOldestFirst
	}

	summaries := s.Registry.List(registry.ListFilters{
		Statuses: statuses,
		Tag:      tagFilter,
		Cwd:      cwdFilter,
	}, order)

	if maxJobs > 0 && len(summaries) > maxJobs {
		summaries = summaries[:maxJobs]
	}

	jobs := make([]map[string]any, 0, len(summaries))
	for _, sm := range summaries {
		j := map[string]any{
			"job_id":        sm.ID,
			"summary":       sm.CommandSummary,
			"shell":         sm.Shell,
			"cwd":           sm.Cwd,
			"tags":          sm.Tags,
			"status":        sm.Status.String(),
			"duration_secs": jobDurationSecs(sm.StartedAt, sm.FinishedAt),
			"output_preview": sm.OutputPreview,
		}
		if sm.ExitCode != nil {
			j["exit_code"] = *sm.ExitCode
		}
		jobs = append(jobs, j)
	}

	return jsonResult(map[string]any{"jobs": jobs})
}
