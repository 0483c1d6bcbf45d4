package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SkipsMissingByDefault(t *testing.T) {
	entries := []Entry{
		{Name: "present", Category: "vcs", VersionArgs: []string{"--version"}},
		{Name: "absent", Category: "vcs", VersionArgs: []string{"--version"}},
	}
	resolver := func(name string) (string, bool) {
		if name == "present" {
			return "/usr/bin/present", true
		}
		return "", false
	}

	results := Run(context.Background(), entries, Options{Resolver: resolver})

	require.Len(t, results, 1)
	assert.Equal(t, "present", results[0].Name)
}

func TestRun_IncludeMissingStillReturnsRow(t *testing.T) {
	entries := []Entry{{Name: "absent", Category: "vcs", VersionArgs: []string{"--version"}}}
	resolver := func(name string) (string, bool) { return "", false }

	results := Run(context.Background(), entries, Options{Resolver: resolver, IncludeMissing: true})

	require.Len(t, results, 1)
	assert.Equal(t, "absent", results[0].Name)
	assert.Equal(t, "absent", results[0].Path)
}

func TestRun_UsesRealShellAndCapturesVersionLine(t *testing.T) {
	entries := []Entry{{Name: "sh", Category: "vcs", VersionArgs: []string{"-c", "echo 1.2.3"}}}
	resolver := func(name string) (string, bool) { return "/bin/sh", true }

	results := Run(context.Background(), entries, Options{Resolver: resolver})

	require.Len(t, results, 1)
	assert.Equal(t, "1.2.3", results[0].Version)
	assert.Empty(t, results[0].Error)
}

func TestFilterByCategory_EmptyMeansAll(t *testing.T) {
	entries := []Entry{{Name: "a", Category: "vcs"}, {Name: "b", Category: "go_tools"}}
	assert.Len(t, filterByCategory(entries, nil), 2)
	assert.Len(t, filterByCategory(entries, []string{"vcs"}), 1)
}
