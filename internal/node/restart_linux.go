//go:build linux

package node

import (
	"fmt"
	"os"
	"syscall"
)

// ExecRestarter replaces the running process with a fresh image of the
// same binary, the closest host equivalent of a firmware power cycle:
// all in-memory state is discarded and the boot sequence runs again,
// re-deriving the log filename from the then-current date.
type ExecRestarter struct{}

func (ExecRestarter) Restart() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate binary: %w", err)
	}
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", exe, err)
	}
	return nil
}
