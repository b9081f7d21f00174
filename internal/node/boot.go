package node

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/accel"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/datalog"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/radio"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/schedule"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/task"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

// Hardware is the set of device-facing collaborators the boot sequence
// wires together. Callers construct them (which performs the hardware
// initialization that must fail loudly) and hand them over.
type Hardware struct {
	Clock     wallclock.Source
	Sensor    accel.Sensor
	Radio     radio.Radio
	Restarter Restarter

	// OpenLog opens the record sink for the boot date. Leave nil for
	// the file appender under Options.StorageDir; tests substitute an
	// in-memory appender.
	OpenLog func(wallclock.CalendarTime) (datalog.Appender, error)
}

// Options carries the schedule, pacing and storage configuration.
type Options struct {
	StorageDir        string
	Schedule          schedule.Schedule
	TelemetryID       int32
	SampleInterval    time.Duration
	ControlInterval   time.Duration
	BroadcastInterval time.Duration
	ClockRetry        time.Duration
	Logger            *slog.Logger
}

// Boot runs the one-time startup sequence and returns a Node ready to
// run: wait for a valid clock, derive and open the day's log file,
// start the sensor measuring and issue one test broadcast. Every
// failure except the test broadcast aborts the boot; the node never
// starts half-initialized.
func Boot(ctx context.Context, hw Hardware, opts Options) (*Node, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ct, err := WaitForClock(ctx, hw.Clock, opts.ClockRetry, logger)
	if err != nil {
		return nil, err
	}
	cache := &wallclock.Cache{}
	cache.Store(ct)

	openLog := hw.OpenLog
	if openLog == nil {
		openLog = func(ct wallclock.CalendarTime) (datalog.Appender, error) {
			return datalog.NewFileAppender(opts.StorageDir, ct)
		}
	}
	appender, err := openLog(ct)
	if err != nil {
		return nil, fmt.Errorf("open data log: %w", err)
	}
	logger.Info("data log open", "file", datalog.FileName(ct))

	if err := hw.Sensor.Measure(); err != nil {
		appender.Close()
		return nil, fmt.Errorf("start sensor measurement: %w", err)
	}

	testBroadcast(hw.Radio, opts.TelemetryID, logger)

	slot := &sample.Slot{}
	samplerGate := task.NewGate()
	broadcastGate := task.NewGate()

	return &Node{
		sampler: &Sampler{
			Gate:     samplerGate,
			Sensor:   hw.Sensor,
			Slot:     slot,
			Clock:    cache,
			Log:      appender,
			Interval: opts.SampleInterval,
			Logger:   logger,
		},
		lifecycle: &Lifecycle{
			Source:      hw.Clock,
			Cache:       cache,
			Schedule:    opts.Schedule,
			Sampler:     samplerGate,
			Broadcaster: broadcastGate,
			Sensor:      hw.Sensor,
			Restarter:   hw.Restarter,
			Interval:    opts.ControlInterval,
			Logger:      logger,
		},
		broadcaster: &Broadcaster{
			Gate:     broadcastGate,
			Slot:     slot,
			Radio:    hw.Radio,
			ID:       opts.TelemetryID,
			Interval: opts.BroadcastInterval,
			Logger:   logger,
		},
		log:    appender,
		logger: logger,
	}, nil
}

// WaitForClock polls the source until it reports valid calendar time.
// This is the node's one retry loop: running without real time would
// corrupt every record timestamp and the whole schedule, so boot blocks
// here until sync succeeds or ctx ends.
func WaitForClock(ctx context.Context, src wallclock.Source, retry time.Duration, logger *slog.Logger) (wallclock.CalendarTime, error) {
	waited := false
	for {
		ct := src.Refresh()
		if ct.Valid() {
			if waited {
				logger.Info("clock valid", "time", ct)
			}
			return ct, nil
		}
		if !waited {
			logger.Info("waiting for clock sync", "retry", retry)
			waited = true
		}
		select {
		case <-ctx.Done():
			return wallclock.CalendarTime{}, ctx.Err()
		case <-time.After(retry):
		}
	}
}

// testBroadcast sends one fixed packet so a listener can confirm the
// link before sampling starts. Failure is logged, not fatal.
func testBroadcast(r radio.Radio, id int32, logger *slog.Logger) {
	if err := r.Wake(); err != nil {
		logger.Warn("test broadcast: radio wake failed", "error", err)
		return
	}
	if err := r.Send(radio.Packet{ID: id, X: 5, Y: 5, Z: 5}); err != nil {
		logger.Warn("test broadcast failed", "error", err)
	}
	if err := r.Sleep(); err != nil {
		logger.Warn("test broadcast: radio sleep failed", "error", err)
	}
}
