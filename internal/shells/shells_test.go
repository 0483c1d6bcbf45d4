package shells

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscover_ReturnsOneEntryPerWellKnownShell(t *testing.T) {
	results := Discover(context.Background())
	assert.Len(t, results, len(WellKnown))

	names := make(map[string]bool, len(results))
	for _, r := range results {
		names[r.Name] = true
	}
	for _, name := range WellKnown {
		assert.True(t, names[name], "expected %s in discovery results", name)
	}
}

func TestShellVersionArgs_CshFamilyUsesEchoFallback(t *testing.T) {
	assert.Equal(t, []string{"-c", "echo $version"}, shellVersionArgs("csh"))
	assert.Equal(t, []string{"-c", "echo $version"}, shellVersionArgs("tcsh"))
	assert.Equal(t, []string{"--version"}, shellVersionArgs("bash"))
}
