package node

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/datalog"
)

// Node runs the three task loops as one unit. The loops share no
// locks: the sampler and broadcaster meet only at the sample slot, and
// the lifecycle controller reaches them only through their gates.
type Node struct {
	sampler     *Sampler
	lifecycle   *Lifecycle
	broadcaster *Broadcaster
	log         datalog.Appender
	logger      *slog.Logger
}

// Run starts the loops and blocks until ctx ends or one of them fails.
// The first failure (a storage append, a restart that could not exec)
// cancels the others; no loop ever stops on its own.
func (n *Node) Run(ctx context.Context) error {
	n.logger.Info("node running")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return n.lifecycle.Run(ctx) })
	g.Go(func() error { return n.sampler.Run(ctx) })
	g.Go(func() error { return n.broadcaster.Run(ctx) })
	err := g.Wait()

	if cerr := n.log.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
