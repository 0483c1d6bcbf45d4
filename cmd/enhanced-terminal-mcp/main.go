package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/mcpserver"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	root := &cobra.Command{
		Use:   "enhanced-terminal-mcp",
		Short: "MCP server exposing PTY-backed terminal execution as tool calls",

		SilenceUsage:  true,
		SilenceErrors: true,

		// Running the binary with no subcommand serves stdio directly, since
		// that is how an MCP client is configured to launch it.
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}

	root.AddCommand(serveCmd())

	ctx := context.Background()
	_, err := root.ExecuteContextC(ctx)
	if err != nil {
		root.PrintErrln(root.ErrPrefix(), err.Error())
	}
	return err
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio until the transport closes",

		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
