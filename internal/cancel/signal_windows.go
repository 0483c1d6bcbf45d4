//go:build windows

package cancel

func signalTerm(pid int) error {
	return ErrUnsupportedPlatform
}
