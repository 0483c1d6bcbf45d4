package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/probe"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/validator"
)

func (s *Surface) handleDetectBinaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	categories := argStringSlice(args, "filter_categories")
	maxConcurrency := argInt(args, "max_concurrency", s.Config.ProbeConcurrency)
	versionTimeoutMs := argInt(args, "version_timeout_ms", int(s.Config.ProbeTimeout/time.Millisecond))
	includeMissing := argBool(args, "include_missing", false)

	known := make(map[string]struct{})
	for _, c := range probe.Categories() {
		known[c] = struct{}{}
	}
	v := validator.New()
	for _, c := range categories {
		_, ok := known[c]
		v.Assert(ok, "unknown filter_categories entry: "+c)
	}
	if err := v.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := probe.Run(ctx, probe.Catalog, probe.Options{
		Categories:     categories,
		MaxConcurrency: maxConcurrency,
		ProbeTimeout:   time.Duration(versionTimeoutMs) * time.Millisecond,
		IncludeMissing: includeMissing,
	})

	rows := make([]map[string]any, 0, len(results))
	for _, r := range results {
		row := map[string]any{
			"name":     r.Name,
			"category": r.Category,
			"path":     r.Path,
			"version":  r.Version,
		}
		if r.Error != "" {
			row["error"] = r.Error
		}
		rows = append(rows, row)
	}

	return jsonResult(map[string]any{"results": rows})
}
