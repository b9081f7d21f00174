// Package sample defines the acceleration reading shared between the
// sampler and the broadcaster.
package sample

import "sync/atomic"

// Reading is one three-axis acceleration sample in raw sensor counts.
type Reading struct {
	X float32
	Y float32
	Z float32
}

// Slot holds the single most recent Reading. The sampler overwrites it
// on every new sample and the broadcaster reads whatever is current;
// there is no queue and no backpressure, so a slow reader simply skips
// intermediate values. Writes and reads never block and never observe
// a torn reading.
type Slot struct {
	cur atomic.Pointer[Reading]
}

// Put replaces the slot contents with r.
func (s *Slot) Put(r Reading) {
	s.cur.Store(&r)
}

// Get returns the most recent reading, or the zero Reading if nothing
// has been stored yet.
func (s *Slot) Get() Reading {
	if p := s.cur.Load(); p != nil {
		return *p
	}
	return Reading{}
}
