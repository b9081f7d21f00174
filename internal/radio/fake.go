package radio

import "sync"

// FakeRadio records the call sequence and every packet for tests. Set
// WakeErr or SendErr before use to fail those calls.
type FakeRadio struct {
	WakeErr error
	SendErr error

	mu      sync.Mutex
	calls   []string
	packets []Packet
	closed  bool
}

func (f *FakeRadio) Wake() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "wake")
	return f.WakeErr
}

func (f *FakeRadio) Send(p Packet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "send")
	if f.SendErr != nil {
		return f.SendErr
	}
	f.packets = append(f.packets, p)
	return nil
}

func (f *FakeRadio) Sleep() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "sleep")
	return nil
}

func (f *FakeRadio) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Calls returns the call names in order.
func (f *FakeRadio) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Packets returns every packet handed to Send that did not fail.
func (f *FakeRadio) Packets() []Packet {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Packet, len(f.packets))
	copy(out, f.packets)
	return out
}

// Closed reports whether Close has been called.
func (f *FakeRadio) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
