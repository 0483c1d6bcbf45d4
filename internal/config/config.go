// Package config loads process-wide configuration from the environment.
// It is read once at bootstrap (internal/mcpserver.Run) and the resolved
// values are threaded into the components that need them; no component
// re-reads the environment per call.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults mirror spec.md §4.D and §4.G.
const (
	DefaultAsyncThreshold        = 50 * time.Second
	DefaultPollInterval          = 100 * time.Millisecond
	DefaultProbeConcurrency      = 16
	DefaultProbeTimeout          = 1500 * time.Millisecond
	DefaultShellProbeConcurrency = 4
)

// Config is the resolved, process-wide configuration.
type Config struct {
	// AsyncThreshold is T_a, the default async-handoff threshold. Overridden
	// per call by the enhanced_terminal tool's async_threshold_secs argument.
	AsyncThreshold time.Duration

	// HardTimeout is T_t. Zero means "no hard timeout."
	HardTimeout time.Duration

	// PollInterval bounds how often the execution loop re-evaluates its
	// deadlines (spec.md §4.D, §5).
	PollInterval time.Duration

	// LogLevel controls Component K's verbosity.
	LogLevel string

	// DenylistFile, if non-empty, is watched and its patterns merged into the
	// built-in denylist (SPEC_FULL.md §4.A.1).
	DenylistFile string

	// ProbeConcurrency and ProbeTimeout are the process-wide defaults for
	// Component G; detect_binaries may override them per call.
	ProbeConcurrency int
	ProbeTimeout     time.Duration
}

// Load reads the environment variables documented in spec.md §6.C and
// SPEC_FULL.md §6.C.
func Load() (*Config, error) {
	cfg := &Config{
		AsyncThreshold:   DefaultAsyncThreshold,
		PollInterval:     DefaultPollInterval,
		LogLevel:         os.Getenv("LOG_LEVEL"),
		DenylistFile:     os.Getenv("ENHANCED_TERMINAL_DENYLIST_FILE"),
		ProbeConcurrency: DefaultProbeConcurrency,
		ProbeTimeout:     DefaultProbeTimeout,
	}

	var err error

	if cfg.AsyncThreshold, err = durationSecsEnv("ENHANCED_TERMINAL_ASYNC_THRESHOLD_SECS", DefaultAsyncThreshold); err != nil {
		return nil, err
	}

	if cfg.HardTimeout, err = durationSecsEnv("ENHANCED_TERMINAL_TIMEOUT_SECS", 0); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("ENHANCED_TERMINAL_POLL_INTERVAL_MS"); ok {
		ms, convErr := strconv.Atoi(v)
		if convErr != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid ENHANCED_TERMINAL_POLL_INTERVAL_MS %q: %w", v, convErr)
		}
		cfg.PollInterval = time.Duration(ms) * time.Millisecond
	}

	if v, ok := os.LookupEnv("ENHANCED_TERMINAL_PROBE_CONCURRENCY"); ok {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n <= 0 {
			return nil, fmt.Errorf("invalid ENHANCED_TERMINAL_PROBE_CONCURRENCY %q: %w", v, convErr)
		}
		cfg.ProbeConcurrency = n
	}

	if v, ok := os.LookupEnv("ENHANCED_TERMINAL_PROBE_TIMEOUT_MS"); ok {
		ms, convErr := strconv.Atoi(v)
		if convErr != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid ENHANCED_TERMINAL_PROBE_TIMEOUT_MS %q: %w", v, convErr)
		}
		cfg.ProbeTimeout = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

func durationSecsEnv(name string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def, nil
	}

	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if secs <= 0 {
		return 0, nil
	}
	return time.Duration(secs) * time.Second, nil
}
