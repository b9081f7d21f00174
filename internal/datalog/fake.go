package datalog

import "sync"

// FakeAppender collects records in memory for tests. Set Err before use
// to make every Append fail with it.
type FakeAppender struct {
	Err error

	mu      sync.Mutex
	records []Record
	closed  bool
}

func (a *FakeAppender) Append(rec Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.records = append(a.records, rec)
	return nil
}

func (a *FakeAppender) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// Records returns a copy of everything appended so far.
func (a *FakeAppender) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// Closed reports whether Close has been called.
func (a *FakeAppender) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}
