// Package validator provides a small assertion-collecting validator for
// tool-call arguments (SPEC_FULL.md §4.I "Input validation").
package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput indicates one or more input validation checks failed.
var ErrInvalidInput = errors.New("invalid input")

// New creates a Validator instance.
func New() *Validator {
	return &Validator{}
}

// Validator collects every failing assertion instead of stopping at the
// first one, so a tool-call result can report all of a client's mistakes at
// once.
type Validator struct {
	msgs []string
}

// Assert records msg as a violation if condition is false.
func (v *Validator) Assert(condition bool, msg string) {
	if !condition {
		v.msgs = append(v.msgs, msg)
	}
}

// Err returns an error wrapping ErrInvalidInput listing every recorded
// violation, or nil if there were none.
func (v *Validator) Err() error {
	if len(v.msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(v.msgs, "; "))
}
