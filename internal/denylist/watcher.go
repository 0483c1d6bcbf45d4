package denylist

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// defaultPollInterval is how often the external denylist file's mtime is
// checked. A kernel-event watcher (inotify) would react faster, but ties the
// binary to Linux; stat polling keeps Component A portable across POSIX
// platforms, which matters more here than sub-second reload latency.
const defaultPollInterval = 2 * time.Second

// WatchFile polls path for modifications and merges its newline-delimited
// patterns into the built-in set on m whenever the file changes, until ctx is
// canceled. Blank lines and lines starting with '#' are ignored. A reload
// failure is logged and the matcher keeps its previous pattern set. WatchFile
// blocks; call it in its own goroutine.
func WatchFile(ctx context.Context, m *Matcher, path string, log *zap.Logger) error {
	if path == "" {
		return nil
	}

	if err := reload(m, path, log); err != nil {
		return fmt.Errorf("initial denylist load: %w", err)
	}

	ticker := time.NewTicker(defaultPollInterval)
	defer ticker.Stop()

	var lastMod time.Time
	if info, err := os.Stat(path); err == nil {
		lastMod = info.ModTime()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				log.Warn("denylist file stat failed, keeping previous patterns", zap.String("path", path), zap.Error(err))
				continue
			}
			if info.ModTime().Equal(lastMod) {
				continue
			}
			lastMod = info.ModTime()

			if err := reload(m, path, log); err != nil {
				log.Warn("denylist file reload failed, keeping previous patterns", zap.String("path", path), zap.Error(err))
			}
		}
	}
}

func reload(m *Matcher, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	extra, err := parsePatterns(f)
	if err != nil {
		return err
	}

	merged := append(Built(), extra...)
	m.SetPatterns(merged)

	log.Info("reloaded denylist file", zap.String("path", path), zap.Int("extra_patterns", len(extra)))
	return nil
}

func parsePatterns(f *os.File) ([]string, error) {
	var out []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}

	return out, scanner.Err()
}
