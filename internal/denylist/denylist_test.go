package denylist_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelsen/enhanced-terminal-mcp/internal/denylist"
)

func TestEvaluate_BuiltinPatterns(t *testing.T) {
	m := denylist.New()

	cases := []string{
		"rm -rf /",
		"RM -RF /",
		"sudo rm -rf / --no-preserve-root",
		"mkfs.ext4 /dev/sda1",
		"dd if=/dev/zero of=/dev/sda",
		"shutdown -h now",
		"reboot",
		":(){ :|:& };:",
		"chmod 777 /",
		"chown -R root /",
		"crontab -r",
		"mv /etc /tmp/etc",
	}

	for _, c := range cases {
		res := m.Evaluate(c, nil)
		assert.Falsef(t, res.Allowed, "expected %q to be denied", c)
		assert.Containsf(t, strings.ToLower(c), strings.ToLower(res.Pattern), "matched pattern must be a case-insensitive substring of the command")
	}
}

func TestEvaluate_Allowed(t *testing.T) {
	m := denylist.New()

	res := m.Evaluate("echo hello", nil)
	assert.True(t, res.Allowed)
}

func TestEvaluate_EmptyCommandDenied(t *testing.T) {
	m := denylist.New()

	res := m.Evaluate("", nil)
	require.False(t, res.Allowed)
	assert.Equal(t, "", res.Pattern)
}

func TestEvaluate_ExtraPatterns(t *testing.T) {
	m := denylist.New()

	res := m.Evaluate("curl http://internal.example/secrets", []string{"curl http://internal"})
	require.False(t, res.Allowed)
	assert.Equal(t, "curl http://internal", res.Pattern)

	// extra patterns are additive, not exclusive: builtins still apply
	res = m.Evaluate("rm -rf /", []string{"some other pattern"})
	assert.False(t, res.Allowed)
}

func TestEvaluate_CaseInsensitiveSubstring(t *testing.T) {
	m := denylist.New()

	for _, cmd := range []string{"Rm -Rf /", "RM -RF /*"} {
		res := m.Evaluate(cmd, nil)
		assert.False(t, res.Allowed)
	}
}

func TestSetPatterns_ReplacesBaseSet(t *testing.T) {
	m := denylist.New()
	m.SetPatterns([]string{"forbidden-token"})

	// built-ins are no longer present once the base set has been replaced
	assert.True(t, m.Evaluate("rm -rf /", nil).Allowed)
	assert.False(t, m.Evaluate("run forbidden-token now", nil).Allowed)
}
