// Package execloop implements Component D, the cooperative execution loop
// that drives a single command from spawn to either synchronous completion
// or a handoff to a background continuation (spec.md §4.D). It is the
// hardest subsystem in the system: it must return control to the transport
// no less often than every poll interval regardless of the child process's
// output behavior.
package execloop

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/ptyrunner"
	"github.com/mkelsen/enhanced-terminal-mcp/internal/registry"
)

// instantThreshold is the "~instant (sub-second)" effective async threshold
// used for force_sync/stream requests (spec.md §4.D step 1).
const instantThreshold = time.Millisecond

// killGracePeriod bounds how long the timeout path waits for trailing output
// after SIGTERM before sending SIGKILL (spec.md §4.D step 3.b).
const killGracePeriod = 200 * time.Millisecond

// Outcome is the terminal shape of a Run call's synchronous return.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeFailed
	OutcomeTimedOut
	OutcomeCanceled
	OutcomeHandoff
)

// NotificationSink delivers a streaming-output notification for a single
// originating tool call (spec.md §4.D, §6.A). Notify is called once per
// chunk, in FIFO order; a returned error is logged and never aborts the run
// (spec.md §7 "Streaming notification failures").
type NotificationSink interface {
	Notify(jobID string, chunk []byte) error
}

// Params configure a single Run invocation.
type Params struct {
	ForceSync      bool
	Stream         bool
	AsyncThreshold time.Duration
	HardTimeout    time.Duration // 0 means "no hard timeout"
	PollInterval   time.Duration
	Log            *zap.Logger
}

// Result is the synchronous outcome of a Run call.
type Result struct {
	Outcome  Outcome
	JobID    string
	ExitCode *int
	Output   []byte // full capture (sync completion) or partial capture (handoff)
}

// Run drives rec from spawn to completion or handoff. Preconditions (spec.md
// §4.D): the Denylist Matcher has already approved the command, and rec was
// registered with status=Running by the caller.
func Run(reg *registry.Registry, rec *registry.JobRecord, sink NotificationSink, p Params) *Result {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	handle, err := ptyrunner.Spawn(ptyrunner.Params{
		Shell:        rec.Shell,
		Command:      rec.Command,
		Cwd:          rec.Cwd,
		EnvOverrides: rec.EnvOverrides,
	})
	if err != nil {
		msg := []byte(fmt.Sprintf("spawn error: %v\n", err))
		reg.AppendOutput(rec.ID, msg)
		reg.Finalize(rec.ID, registry.StatusFailed, nil)
		log.Warn("pty spawn failed", zap.String("job_id", rec.ID), zap.Error(err))
		return &Result{Outcome: OutcomeFailed, JobID: rec.ID, Output: msg}
	}
	reg.SetPid(rec.ID, handle.Pid)

	in, out := newUnboundedChunkChan()
	startReader(handle.Reader(), in)

	pollInterval := p.PollInterval
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}

	effectiveThreshold := p.AsyncThreshold
	if p.ForceSync || p.Stream {
		effectiveThreshold = instantThreshold
	}

	checkHandoff := !p.ForceSync

	res := drive(reg, rec, handle, out, drivePolicy{
		hardTimeout:        p.HardTimeout,
		pollInterval:       pollInterval,
		checkHandoff:       checkHandoff,
		effectiveThreshold: effectiveThreshold,
		sink:               sink,
		log:                log,
	})

	if res != nil {
		return res
	}

	// Handoff: detach the reader channel and child handle into a background
	// continuation; the originating call returns immediately (spec.md §4.D
	// "Handoff").
	// In stream mode the continuation keeps notifying the sink.
	log.Info("handing off to background continuation", zap.String("job_id", rec.ID))
	var bgSink NotificationSink
	if p.Stream {
		bgSink = sink
	}
	go func() {
		drive(reg, rec, handle, out, drivePolicy{
			hardTimeout:  p.HardTimeout,
			pollInterval: pollInterval,
			checkHandoff: false,
			sink:         bgSink,
			log:          log,
		})
	}()

	return &Result{Outcome: OutcomeHandoff, JobID: rec.ID, Output: rec.Output()}
}

type drivePolicy struct {
	hardTimeout        time.Duration
	pollInterval       time.Duration
	checkHandoff       bool
	effectiveThreshold time.Duration
	sink               NotificationSink
	log                *zap.Logger
}

// drive runs the per-iteration step of spec.md §4.D's "Main sequence per
// call," steps 3.a-3.e. It returns nil exactly when checkHandoff is true and
// the async threshold was exceeded (signaling the caller to hand off);
// otherwise it runs until the job reaches a terminal state and returns the
// corresponding Result.
func drive(reg *registry.Registry, rec *registry.JobRecord, handle *ptyrunner.Handle, out <-chan []byte, p drivePolicy) *Result {
	for {
		elapsed := time.Since(rec.StartedAt)

		if p.hardTimeout > 0 && elapsed > p.hardTimeout {
			killAndDrainTail(handle, out, reg, rec.ID, p.log)
			reg.Finalize(rec.ID, registry.StatusTimedOut, nil)
			return &Result{Outcome: OutcomeTimedOut, JobID: rec.ID, Output: rec.Output()}
		}

		if p.checkHandoff && elapsed > p.effectiveThreshold {
			return nil
		}

		select {
		case chunk, ok := <-out:
			if !ok {
				waitErr := handle.Wait()
				status, code := classifyExit(waitErr)
				if reg.CancelRequested(rec.ID) {
					status = registry.StatusCanceled
				}
				reg.Finalize(rec.ID, status, code)
				return &Result{Outcome: outcomeForStatus(status), JobID: rec.ID, ExitCode: code, Output: rec.Output()}
			}

			reg.AppendOutput(rec.ID, chunk)

			if p.sink != nil {
				if err := p.sink.Notify(rec.ID, chunk); err != nil {
					p.log.Warn("streaming notification failed", zap.String("job_id", rec.ID), zap.Error(err))
				}
			}

		case <-time.After(p.pollInterval):
			// re-evaluate elapsed/handoff/timeout on the next iteration; this
			// is what guarantees the gap between two consecutive deadline
			// checks never exceeds poll_interval + ε (spec.md §4.D).
		}
	}
}

// killAndDrainTail implements spec.md §4.D step 3.b: SIGTERM, a short grace
// period to collect trailing output, then SIGKILL. The reader goroutine and
// child are reaped in the background so this call can return promptly with
// whatever was captured in the grace window.
func killAndDrainTail(handle *ptyrunner.Handle, out <-chan []byte, reg *registry.Registry, jobID string, log *zap.Logger) {
	if proc := handle.Cmd.Process; proc != nil {
		_ = proc.Signal(syscall.SIGTERM)
	}

	grace := time.NewTimer(killGracePeriod)
	defer grace.Stop()

drain:
	for {
		select {
		case chunk, ok := <-out:
			if !ok {
				break drain
			}
			reg.AppendOutput(jobID, chunk)
		case <-grace.C:
			break drain
		}
	}

	if proc := handle.Cmd.Process; proc != nil {
		_ = proc.Signal(syscall.SIGKILL)
	}

	go func() {
		for range out {
			// discard: job is already finalized, this just lets the reader
			// goroutine observe EOF and exit.
		}
		if err := handle.Wait(); err != nil && log != nil {
			log.Debug("reaped timed-out child", zap.String("job_id", jobID), zap.Error(err))
		}
	}()
}

func classifyExit(err error) (registry.Status, *int) {
	if err == nil {
		code := 0
		return registry.StatusCompleted, &code
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return registry.StatusFailed, &code
	}

	return registry.StatusFailed, nil
}

func outcomeForStatus(s registry.Status) Outcome {
	switch s {
	case registry.StatusCompleted:
		return OutcomeCompleted
	case registry.StatusTimedOut:
		return OutcomeTimedOut
	case registry.StatusCanceled:
		return OutcomeCanceled
	default:
		return OutcomeFailed
	}
}
