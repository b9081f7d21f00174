package node

import (
	"context"
	"log/slog"
	"time"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/radio"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/task"
)

// Broadcaster periodically snapshots the newest sample and transmits it
// as one telemetry packet, waking the radio around each send. Its
// period is coarse compared to the sampler's, so most samples are never
// broadcast; whoever listens gets the latest value, not a replay.
type Broadcaster struct {
	Gate     *task.Gate
	Slot     *sample.Slot
	Radio    radio.Radio
	ID       int32
	Interval time.Duration
	Logger   *slog.Logger
}

// Run executes the broadcast loop until ctx ends.
func (b *Broadcaster) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.Interval)
	defer ticker.Stop()
	return b.loop(ctx, ticker.C)
}

func (b *Broadcaster) loop(ctx context.Context, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
		if err := b.Gate.Wait(ctx); err != nil {
			return err
		}
		b.broadcastOnce()
	}
}

// broadcastOnce transmits one packet. Telemetry is best effort: a
// failed send is logged and dropped, never retried, and never takes
// the node down.
func (b *Broadcaster) broadcastOnce() {
	if err := b.Radio.Wake(); err != nil {
		b.Logger.Warn("radio wake failed", "error", err)
		return
	}
	r := b.Slot.Get()
	p := radio.Packet{ID: b.ID, X: r.X, Y: r.Y, Z: r.Z}
	if err := b.Radio.Send(p); err != nil {
		b.Logger.Debug("telemetry send failed", "error", err)
	}
	if err := b.Radio.Sleep(); err != nil {
		b.Logger.Warn("radio sleep failed", "error", err)
	}
}
