//go:build windows

package ptyrunner

// Spawn has no durable portable PTY primitive on Windows in this service's
// supported stack; the package still builds there, but every spawn attempt
// fails fast with ErrUnsupportedPlatform (SPEC_FULL.md §4.C "Platform
// note").
func Spawn(p Params) (*Handle, error) {
	return nil, ErrUnsupportedPlatform
}
