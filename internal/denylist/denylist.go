// Package denylist implements Component A: a case-insensitive substring gate
// that rejects dangerous command strings before they are ever spawned.
package denylist

import "strings"

// Built returns a copy of the built-in pattern set (spec.md §4.A). Matching
// is plain case-insensitive substring containment; no regular-expression
// engine is used or required.
func Built() []string {
	out := make([]string, len(builtin))
	copy(out, builtin)
	return out
}

var builtin = []string{
	// destructive filesystem operations
	"rm -rf /",
	"rm -rf /*",
	"rm -rf ~",
	"rm -rf .",
	"rm -fr /",
	"mkfs",
	"dd if=/dev/zero",
	"dd if=/dev/random of=/dev/sda",
	"dd of=/dev/sda",
	"dd of=/dev/nvme",
	"dd of=/dev/disk",

	// power-state transitions
	"shutdown",
	"reboot",
	"halt",
	"poweroff",
	"init 0",
	"init 6",
	"systemctl poweroff",
	"systemctl reboot",
	"systemctl halt",

	// fork-bomb idioms
	":(){ :|:& };:",
	":(){:|:&};:",
	":(){ : | : & } ; :",

	// recursive permission changes on root paths
	"chmod 777 /",
	"chmod -r 777 /",
	"chmod -r 000 /",
	"chown -r root /",

	// kernel module manipulation
	"insmod",
	"rmmod",
	"modprobe -r",

	// crontab reset
	"crontab -r",

	// relocation of critical system directories
	"mv /etc",
	"mv /usr",
	"mv /bin",
	"mv /boot",
}

// Result is the outcome of an evaluate call.
type Result struct {
	Allowed bool
	Pattern string // the matched pattern, set only when !Allowed
}

// Matcher evaluates commands against a pattern set. The zero value is not
// usable; construct with New. A Matcher is safe for concurrent use; its
// pattern set can be swapped wholesale by SetPatterns (used by the
// hot-reload Watcher in watcher.go) without interrupting in-flight Evaluate
// calls.
type Matcher struct {
	patterns atomicPatterns
}

// New creates a Matcher seeded with the built-in pattern set.
func New() *Matcher {
	m := &Matcher{}
	m.patterns.store(Built())
	return m
}

// SetPatterns atomically replaces the matcher's base pattern set (built-in
// plus any externally loaded patterns). It does not affect the
// extra_patterns argument accepted by Evaluate, which is always additive.
func (m *Matcher) SetPatterns(patterns []string) {
	cp := make([]string, len(patterns))
	copy(cp, patterns)
	m.patterns.store(cp)
}

// Evaluate checks command against the matcher's base pattern set plus
// extraPatterns (appended with identical semantics). An empty command is
// always Denied("") per spec.md §4.A / §9 (Open Question: empty command).
func (m *Matcher) Evaluate(command string, extraPatterns []string) Result {
	if command == "" {
		return Result{Allowed: false, Pattern: ""}
	}

	lower := strings.ToLower(command)

	for _, p := range m.patterns.load() {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return Result{Allowed: false, Pattern: p}
		}
	}

	for _, p := range extraPatterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return Result{Allowed: false, Pattern: p}
		}
	}

	return Result{Allowed: true}
}
