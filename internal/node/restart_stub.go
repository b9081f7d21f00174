//go:build !linux

package node

import "errors"

// ExecRestarter is not available on non-Linux platforms.
type ExecRestarter struct{}

func (ExecRestarter) Restart() error {
	return errors.New("node: restart not supported on this platform (requires Linux)")
}
