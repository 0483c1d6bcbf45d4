// Package mcpserver implements Component J, Server Bootstrap: assembling
// every component and wiring the transport to the Tool Surface (spec.md
// §4.J, SPEC_FULL.md §4.J "Startup sequence, concretely").
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/config"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/denylist"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/logging"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/shells"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/tools"
)

const (
	serverName    = "enhanced-terminal-mcp"
	serverVersion = "0.1.0"
)

// Run executes the full startup sequence and serves the MCP stdio transport
// until EOF. It returns nil on clean shutdown (spec.md §6.D "0 on clean
// transport shutdown").
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	matcher := denylist.New()
	if cfg.DenylistFile != "" {
		go func() {
			if err := denylist.WatchFile(ctx, matcher, cfg.DenylistFile, log); err != nil {
				log.Error("denylist file watcher stopped", zap.Error(err))
			}
		}()
	}

	discovered := shells.Discover(ctx)
	log.Info("shell discovery complete", zap.Int("found", countAvailable(discovered)))

	reg := registry.New()

	surface := tools.New(reg, matcher, cfg, log)

	srv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithInstructions(instructions(discovered)),
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	surface.Register(srv)

	log.Info("serving MCP stdio transport")
	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}

	return nil
}

func countAvailable(found []shells.Shell) int {
	n := 0
	for _, s := range found {
		if s.Path != "" {
			n++
		}
	}
	return n
}

// instructions builds the server-capabilities `instructions` string (spec.md
// §6.A): a usage summary plus the shells discovered at startup.
func instructions(found []shells.Shell) string {
	var b strings.Builder
	b.WriteString("Executes shell commands in a pseudo-terminal and tracks them as jobs. ")
	b.WriteString("Use enhanced_terminal to run a command, enhanced_terminal_job_status/")
	b.WriteString("enhanced_terminal_job_list/enhanced_terminal_job_cancel to manage running ")
	b.WriteString("and completed jobs, and detect_binaries to probe for installed developer tools.\n\n")
	b.WriteString("Shells discovered at startup:\n")
	for _, s := range found {
		if s.Path == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (%s): %s\n", s.Name, s.Path, s.Version))
	}
	return b.String()
}
