// Package tools implements Component I, the Tool Surface: the five named
// operations exposed over MCP (spec.md §4.I), bound to the Job Registry,
// Denylist Matcher, Execution Loop, Cancellation Service, and Binary Probe
// Engine underneath.
package tools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/config"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/denylist"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
)

// Surface holds the shared singleton handles every tool handler dispatches
// against (spec.md §4.J "construct the Job Registry as a singleton shared
// between all tool invocations").
type Surface struct {
	Registry *registry.Registry
	Matcher  *denylist.Matcher
	Config   *config.Config
	Log      *zap.Logger
}

// New builds a Surface from already-constructed components.
func New(reg *registry.Registry, matcher *denylist.Matcher, cfg *config.Config, log *zap.Logger) *Surface {
	return &Surface{Registry: reg, Matcher: matcher, Config: cfg, Log: log}
}

// Register attaches all five tools (spec.md §4.I) to srv.
func (s *Surface) Register(srv *server.MCPServer) {
	srv.AddTool(enhancedTerminalTool(), s.handleEnhancedTerminal(srv))
	srv.AddTool(jobStatusTool(), s.handleJobStatus)
	srv.AddTool(jobListTool(), s.handleJobList)
	srv.AddTool(jobCancelTool(), s.handleJobCancel)
	srv.AddTool(detectBinariesTool(), s.handleDetectBinaries)
}

func enhancedTerminalTool() mcp.Tool {
	return mcp.NewTool("enhanced_terminal",
		mcp.WithDescription("Run a shell command in a pseudo-terminal and return its output, synchronously or as a background job."),
		mcp.WithString("command", mcp.Required(), mcp.Description("The command line to execute.")),
		mcp.WithString("cwd", mcp.Description("Working directory for the command.")),
		mcp.WithString("shell", mcp.Description("Shell program used to run the command.")),
		mcp.WithNumber("output_limit", mcp.Description("Bytes of preview output returned inline.")),
		mcp.WithNumber("async_threshold_secs", mcp.Description("Seconds of synchronous execution before handing off to a background job.")),
		mcp.WithBoolean("force_sync", mcp.Description("Never hand off; block until the command terminates.")),
		mcp.WithBoolean("stream", mcp.Description("Hand off immediately and stream output as notifications.")),
		mcp.WithObject("env_vars", mcp.Description("Environment variable overrides applied on top of the parent environment.")),
		mcp.WithArray("tags", mcp.Description("Client-defined classification tags.")),
		mcp.WithArray("custom_denylist", mcp.Description("Additional denylist substrings checked only for this call.")),
	)
}

func jobStatusTool() mcp.Tool {
	return mcp.NewTool("enhanced_terminal_job_status",
		mcp.WithDescription("Read a job's current status and output."),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("The job id returned by enhanced_terminal.")),
		mcp.WithBoolean("incremental", mcp.Description("Tail-cursor mode: return only output appended since the last read.")),
		mcp.WithNumber("offset", mcp.Description("Byte offset for a paginated read; selects pagination mode.")),
		mcp.WithNumber("limit", mcp.Description("Byte limit for a paginated read; 0 means to end.")),
	)
}

func jobListTool() mcp.Tool {
	return mcp.NewTool("enhanced_terminal_job_list",
		mcp.WithDescription("List known jobs with lightweight summaries."),
		mcp.WithNumber("max_jobs", mcp.Description("Maximum number of jobs to return.")),
		mcp.WithString("status_filter", mcp.Description("Restrict to one status: running, completed, failed, timed_out, canceled, denied.")),
		mcp.WithString("tag_filter", mcp.Description("Restrict to jobs carrying this exact tag.")),
		mcp.WithString("cwd_filter", mcp.Description("Restrict to jobs started in this exact working directory.")),
		mcp.WithString("sort_order", mcp.Description("newest or oldest, by started_at.")),
	)
}

func jobCancelTool() mcp.Tool {
	return mcp.NewTool("enhanced_terminal_job_cancel",
		mcp.WithDescription("Request termination of a running job."),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("The job id to cancel.")),
	)
}

func detectBinariesTool() mcp.Tool {
	return mcp.NewTool("detect_binaries",
		mcp.WithDescription("Probe PATH for installed developer tools and their versions."),
		mcp.WithArray("filter_categories", mcp.Description("Restrict the probe to these catalog categories.")),
		mcp.WithNumber("max_concurrency", mcp.Description("Maximum probe subprocesses in flight at once.")),
		mcp.WithNumber("version_timeout_ms", mcp.Description("Per-probe timeout in milliseconds.")),
		mcp.WithBoolean("include_missing", mcp.Description("Include catalog entries not found on PATH.")),
	)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
