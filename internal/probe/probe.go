package probe

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is a BinaryProbeResult (spec.md §3 "BinaryProbeResult"): a
// transient reply payload, never stored in the Job Registry.
type Result struct {
	Name     string
	Category string
	Path     string // "" if not resolved on PATH
	Version  string // "" if unknown (detected but no parseable version line)
	Error    string // "" on success; a probe-level error (timeout, exec failure)

	included bool // set by Run; distinguishes a real (possibly absent) result from a zero-valued slot
}

// Options configure a single Run call (spec.md §4.G "Contract").
type Options struct {
	Categories     []string // nil/empty means "all categories"
	MaxConcurrency int      // 0 means DefaultMaxConcurrency
	ProbeTimeout   time.Duration
	IncludeMissing bool
	Resolver       func(name string) (string, bool) // overridden in tests; defaults to exec.LookPath
}

const (
	DefaultMaxConcurrency = 16
	DefaultProbeTimeout   = 1500 * time.Millisecond
)

// Run probes every catalog entry matching opts.Categories with bounded
// parallelism (spec.md §4.G "Algorithm"). The fan-out is pure read-only.
func Run(ctx context.Context, entries []Entry, opts Options) []Result {
	selected := filterByCategory(entries, opts.Categories)

	limit := opts.MaxConcurrency
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}
	timeout := opts.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	resolve := opts.Resolver
	if resolve == nil {
		resolve = lookPath
	}

	results := make([]Result, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, entry := range selected {
		i, entry := i, entry
		path, found := resolve(entry.Name)
		if !found && !opts.IncludeMissing {
			// Skipped entirely (spec.md §4.G "if missing and
			// include_missing=false, skip"): leave results[i] zero-valued
			// and uncounted.
			continue
		}

		g.Go(func() error {
			results[i] = probeOne(gctx, entry, path, found, timeout)
			return nil
		})
	}

	_ = g.Wait() // probeOne never returns an error; errgroup is used purely for SetLimit fan-out

	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.included {
			out = append(out, r)
		}
	}
	return out
}

func probeOne(ctx context.Context, entry Entry, path string, found bool, timeout time.Duration) Result {
	res := Result{Name: entry.Name, Category: entry.Category, included: true}
	if !found {
		// spec.md end-to-end scenario 6: an absent program, when included at
		// all, is reported with path=absent rather than an empty string.
		res.Path = "absent"
		return res
	}
	res.Path = path

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, path, entry.VersionArgs...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	line := firstLine(buf.Bytes())

	switch {
	case cctx.Err() != nil:
		res.Error = "probe timed out"
	case err != nil:
		if line != "" {
			// non-zero exit with some output: "detected but unknown
			// version" (spec.md §4.G).
			res.Version = line
		} else {
			res.Error = err.Error()
		}
	default:
		res.Version = line
	}

	return res
}

func firstLine(b []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line
		}
	}
	return ""
}

func lookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

func filterByCategory(entries []Entry, categories []string) []Entry {
	if len(categories) == 0 {
		return entries
	}
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := wanted[e.Category]; ok {
			out = append(out, e)
		}
	}
	return out
}
