//go:build unix

package cancel

import (
	"errors"
	"syscall"
)

func signalTerm(pid int) error {
	err := syscall.Kill(pid, syscall.SIGTERM)
	if err != nil && errors.Is(err, syscall.ESRCH) {
		return errProcessNotFound
	}
	return err
}
