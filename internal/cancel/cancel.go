// Package cancel implements Component F, cancellation of a running job by
// sending SIGTERM to its recorded pid (spec.md §4.F).
package cancel

import (
	"errors"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
)

// ErrUnsupportedPlatform is returned on platforms with no durable portable
// primitive for signaling an arbitrary pid. It follows the PTY Runner's
// per-package sentinel convention; the two sentinels are distinct errors with
// different messages.
var ErrUnsupportedPlatform = errors.New("cancel: unsupported platform")

var errProcessNotFound = errors.New("cancel: process not found")

// Outcome describes what Cancel did.
type Outcome int

const (
	// OutcomeSignaled means the cancellation was recorded on a still-running
	// job and, if its pid is known, SIGTERM was sent to it.
	OutcomeSignaled Outcome = iota
	// OutcomeAlreadyFinished means the job was already in a terminal state,
	// or its process had already exited; no signal was sent (spec.md §4.F
	// "Already-finished short-circuit").
	OutcomeAlreadyFinished
	// OutcomeNotFound means no job exists with the given id.
	OutcomeNotFound
	// OutcomeUnsupported means the platform has no signalling primitive
	// (spec.md §4.F "Windows has no portable equivalent").
	OutcomeUnsupported
)

// Cancel sends SIGTERM to the process backing id, if it is still running.
// It does not wait for the process to exit or mark the job Canceled itself:
// that transition happens when the execution loop observes the child's exit
// (spec.md §4.F — cancellation only requests termination, the loop records
// the outcome).
func Cancel(reg *registry.Registry, id string) (Outcome, error) {
	snap, ok := reg.Snapshot(id)
	if !ok {
		return OutcomeNotFound, nil
	}

	if snap.Status.Terminal() {
		return OutcomeAlreadyFinished, nil
	}

	reg.RequestCancel(id)

	if snap.Pid == nil {
		// Registered but not yet spawned (race with Run's startup); the
		// cancellation request is still recorded and will take effect as
		// soon as the execution loop observes the child exit.
		return OutcomeSignaled, nil
	}

	if err := signalTerm(*snap.Pid); err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedPlatform):
			return OutcomeUnsupported, nil
		case errors.Is(err, errProcessNotFound):
			return OutcomeAlreadyFinished, nil
		default:
			return OutcomeSignaled, err
		}
	}

	return OutcomeSignaled, nil
}
