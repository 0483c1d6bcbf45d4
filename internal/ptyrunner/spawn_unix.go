//go:build unix

package ptyrunner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// Spawn allocates a PTY pair and starts `shell -c command` in the slave end
// with env = parent environment ⊕ EnvOverrides (overrides win). Failure to
// allocate the PTY, spawn the child, or acquire the reader is a terminal
// spawn error; no partial Handle is returned on failure (spec.md §4.C).
func Spawn(p Params) (*Handle, error) {
	rows, cols := p.Rows, p.Cols
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}

	cmd := exec.Command(p.Shell, "-c", p.Command)
	if p.Cwd != "" {
		cmd.Dir = p.Cwd
	}
	cmd.Env = mergeEnv(os.Environ(), p.EnvOverrides)

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return nil, fmt.Errorf("spawn pty: %w", err)
	}

	if cmd.Process == nil {
		_ = master.Close()
		return nil, fmt.Errorf("spawn pty: %w", errors.New("no process after start"))
	}

	return &Handle{
		Cmd:    cmd,
		Pid:    cmd.Process.Pid,
		Master: master,
	}, nil
}
