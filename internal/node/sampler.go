// Package node wires the clock, sensor, storage and radio into the
// three task loops and the one-time boot sequence that starts them.
// The sampler and the broadcaster share data only through the sample
// slot; the lifecycle controller owns their running/suspended state.
package node

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/accel"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/datalog"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/task"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

// Sampler polls the accelerometer every tick, publishes each sample to
// the shared slot and appends a timestamped record to the data log.
// Record timestamps come from the clock cache the lifecycle controller
// refreshes, not from a clock query per sample; a timestamp can lag the
// controller by one control tick, which is fine at second precision.
type Sampler struct {
	Gate     *task.Gate
	Sensor   accel.Sensor
	Slot     *sample.Slot
	Clock    *wallclock.Cache
	Log      datalog.Appender
	Interval time.Duration
	Logger   *slog.Logger
}

// Run executes the sampling loop until ctx ends or an append fails.
func (s *Sampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	return s.loop(ctx, ticker.C)
}

func (s *Sampler) loop(ctx context.Context, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
		// The gate check sits between the tick and the work so a
		// suspension lands on an iteration boundary: either the whole
		// cycle runs or none of it does.
		if err := s.Gate.Wait(ctx); err != nil {
			return err
		}
		if err := s.sampleOnce(); err != nil {
			return err
		}
	}
}

// sampleOnce runs one sampling cycle. Sensor trouble skips the cycle;
// a failed append is fatal, because silently losing records would
// defeat the logger, and comes back as the returned error.
func (s *Sampler) sampleOnce() error {
	ready, err := s.Sensor.DataReady()
	if err != nil {
		s.Logger.Warn("data-ready poll failed", "error", err)
		return nil
	}
	if !ready {
		return nil
	}
	r, err := s.Sensor.Read()
	if err != nil {
		s.Logger.Warn("sample read failed", "error", err)
		return nil
	}
	s.Slot.Put(r)
	rec := datalog.Record{Time: s.Clock.Load(), Reading: r}
	if err := s.Log.Append(rec); err != nil {
		return fmt.Errorf("append sample record: %w", err)
	}
	return nil
}
