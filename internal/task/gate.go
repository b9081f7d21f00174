// Package task provides the suspend/resume gate used to pause worker
// loops at iteration boundaries.
package task

import (
	"context"
	"sync"
)

// Gate switches a worker loop between running and suspended. Loops call
// Wait at the top of each iteration: while the gate is running Wait
// returns immediately, and while it is suspended Wait blocks until
// Resume or until ctx is done. Work units are all-or-nothing; a suspend
// lands between iterations, never in the middle of one.
type Gate struct {
	mu   sync.Mutex
	open chan struct{} // closed while running
}

// NewGate returns a gate in the running state.
func NewGate() *Gate {
	g := &Gate{open: make(chan struct{})}
	close(g.open)
	return g
}

// Suspend pauses the gate. Suspending an already suspended gate is a
// no-op.
func (g *Gate) Suspend() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		g.open = make(chan struct{})
	default:
	}
}

// Resume releases all waiters. Resuming a running gate is a no-op.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
	default:
		close(g.open)
	}
}

// Wait blocks while the gate is suspended. It returns nil once the gate
// is running, or ctx.Err() if the context ends first.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	ch := g.open
	g.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Suspended reports whether the gate is currently paused.
func (g *Gate) Suspended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		return false
	default:
		return true
	}
}
