package task

import (
	"context"
	"testing"
	"time"
)

func TestGateStartsRunning(t *testing.T) {
	g := NewGate()
	if g.Suspended() {
		t.Fatal("new gate should be running")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := g.Wait(ctx); err != nil {
		t.Fatalf("Wait on running gate: %v", err)
	}
}

func TestGateSuspendResume(t *testing.T) {
	g := NewGate()
	g.Suspend()
	if !g.Suspended() {
		t.Fatal("gate should be suspended")
	}
	g.Resume()
	if g.Suspended() {
		t.Fatal("gate should be running again")
	}
}

func TestGateIdempotent(t *testing.T) {
	g := NewGate()
	g.Resume()
	g.Resume()
	if g.Suspended() {
		t.Fatal("repeated Resume should leave the gate running")
	}
	g.Suspend()
	g.Suspend()
	if !g.Suspended() {
		t.Fatal("repeated Suspend should leave the gate suspended")
	}
	g.Resume()
	if g.Suspended() {
		t.Fatal("gate should run after Resume")
	}
}

func TestGateWaitBlocksWhileSuspended(t *testing.T) {
	g := NewGate()
	g.Suspend()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait(context.Background())
	}()

	select {
	case err := <-done:
		t.Fatalf("Wait returned %v while suspended", err)
	case <-time.After(50 * time.Millisecond):
	}

	g.Resume()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait after Resume: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Resume")
	}
}

func TestGateWaitReleasesAllWaiters(t *testing.T) {
	g := NewGate()
	g.Suspend()

	const n = 3
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			done <- g.Wait(context.Background())
		}()
	}

	g.Resume()
	for i := 0; i < n; i++ {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Wait: %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("waiter still blocked after Resume")
		}
	}
}

func TestGateWaitHonorsContext(t *testing.T) {
	g := NewGate()
	g.Suspend()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Wait(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Wait = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}
