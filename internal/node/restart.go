package node

import "sync"

// Restarter performs the full-system restart the schedule can demand.
type Restarter interface {
	// Restart tears the whole process down and boots it again from
	// scratch. The real implementation does not return on success.
	Restart() error
}

// FakeRestarter counts restart requests instead of performing them,
// which lets tests observe triggers that would normally end the
// process. Set Err to make every request fail.
type FakeRestarter struct {
	Err error

	mu    sync.Mutex
	calls int
}

func (f *FakeRestarter) Restart() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.calls++
	return nil
}

// Calls returns how many restarts were requested.
func (f *FakeRestarter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
