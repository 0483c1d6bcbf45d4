// Package shells implements Component H, shell discovery (spec.md §4.H): a
// once-at-startup probe of well-known interactive shells, reusing the
// Binary Probe Engine's fan-out primitive.
package shells

import (
	"context"
	"time"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/probe"
)

// WellKnown is the fixed set of shell names discovery checks for (spec.md
// §4.H).
var WellKnown = []string{"bash", "zsh", "fish", "sh", "dash", "ksh", "tcsh", "csh"}

// DefaultConcurrency bounds the discovery fan-out (SPEC_FULL.md §4.H).
const DefaultConcurrency = 4

// DefaultProbeTimeout is the "short timeout" spec.md §4.H specifies for each
// shell's version query.
const DefaultProbeTimeout = 1 * time.Second

// Shell is one discovered (or undiscovered) shell.
type Shell struct {
	Name    string
	Path    string // "" if not found on PATH
	Version string // first output line; "" if unavailable
}

const catalogCategory = "shells"

func catalogEntries() []probe.Entry {
	entries := make([]probe.Entry, len(WellKnown))
	for i, name := range WellKnown {
		entries[i] = probe.Entry{Name: name, Category: catalogCategory, VersionArgs: shellVersionArgs(name)}
	}
	return entries
}

// shellVersionArgs picks a cheap, non-interactive version query per shell;
// tcsh/csh don't support --version so a `-c` echo of $version is used
// instead.
func shellVersionArgs(name string) []string {
	switch name {
	case "tcsh", "csh":
		return []string{"-c", "echo $version"}
	default:
		return []string{"--version"}
	}
}

// Discover runs once at startup and returns one entry per well-known shell,
// with its path and version line when found on PATH (Path is "" otherwise),
// packaged for the server-capabilities payload (spec.md §4.H, §6.A).
func Discover(ctx context.Context) []Shell {
	results := probe.Run(ctx, catalogEntries(), probe.Options{
		MaxConcurrency: DefaultConcurrency,
		ProbeTimeout:   DefaultProbeTimeout,
		IncludeMissing: true,
	})

	out := make([]Shell, 0, len(results))
	for _, r := range results {
		path := r.Path
		if path == "absent" {
			// probe.Run's detect_binaries-facing "absent" sentinel; shell
			// discovery isn't part of the normative wire contract §4.I
			// names, so keep this package's own "" convention for Shell.Path.
			path = ""
		}
		out = append(out, Shell{Name: r.Name, Path: path, Version: r.Version})
	}
	return out
}
