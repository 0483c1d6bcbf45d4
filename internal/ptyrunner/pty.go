// Package ptyrunner implements Component C: allocating a pseudo-terminal and
// spawning a shell command inside it (spec.md §4.C).
package ptyrunner

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// DefaultRows and DefaultCols are the terminal window size used unless the
// caller overrides it (spec.md §4.C).
const (
	DefaultRows = 24
	DefaultCols = 80
)

// ErrUnsupportedPlatform is returned when PTY allocation has no durable
// portable primitive on the current OS (SPEC_FULL.md §4.C "Platform note").
var ErrUnsupportedPlatform = errors.New("pty: unsupported platform")

// Params describe a command to spawn in a PTY.
type Params struct {
	Shell        string            // e.g. "bash"
	Command      string            // the raw command line, run as `shell -c command`
	Cwd          string            // working directory; "" means inherit
	EnvOverrides map[string]string // merged on top of the parent environment, overrides win
	Rows, Cols   uint16            // 0 means DefaultRows/DefaultCols
}

// Handle is a spawned PTY-backed child process.
type Handle struct {
	Cmd    *exec.Cmd
	Pid    int
	Master *os.File // blocking byte-read handle on the master end
}

// Wait blocks until the child exits. It returns nil on a clean exit and an
// *exec.ExitError (carrying the exit code) or other error otherwise.
func (h *Handle) Wait() error {
	return h.Cmd.Wait()
}

// Reader returns the blocking byte-read handle on the PTY master end.
func (h *Handle) Reader() io.Reader { return h.Master }

func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	out := make([]string, 0, len(base)+len(overrides))
	out = append(out, base...)
	for k, v := range overrides {
		out = append(out, k+"="+v)
	}
	return out
}
