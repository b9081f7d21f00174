package node

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/accel"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/schedule"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/task"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

// Lifecycle refreshes the wall clock every control tick, shares the
// snapshot with the sampler and applies the suspend/resume/restart
// schedule to the other two tasks. It is the only component that ever
// changes a task's lifecycle state or the sensor's power mode.
type Lifecycle struct {
	Source      wallclock.Source
	Cache       *wallclock.Cache
	Schedule    schedule.Schedule
	Sampler     *task.Gate
	Broadcaster *task.Gate
	Sensor      accel.Sensor
	Restarter   Restarter
	Interval    time.Duration
	Logger      *slog.Logger
}

// Run executes the control loop until ctx ends or a restart fails.
func (l *Lifecycle) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()
	return l.loop(ctx, ticker.C)
}

func (l *Lifecycle) loop(ctx context.Context, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
		if err := l.controlOnce(); err != nil {
			return err
		}
	}
}

// controlOnce runs one control tick: refresh the clock, publish the
// snapshot and apply whatever the schedule decides for that second.
// All three trigger checks read the same snapshot, so one tick's
// decisions are mutually consistent.
func (l *Lifecycle) controlOnce() error {
	ct := l.Source.Refresh()
	if !ct.Valid() {
		// Keep the last good snapshot. The clock never resyncs after
		// boot, so this only covers a transient source hiccup.
		return nil
	}
	l.Cache.Store(ct)

	a := l.Schedule.At(ct)
	if a.Suspend {
		l.suspend(ct)
	}
	if a.Resume {
		l.resume(ct)
	}
	if a.Restart {
		l.Logger.Info("restart trigger fired", "at", ct)
		// The real restarter replaces the process and never returns.
		if err := l.Restarter.Restart(); err != nil {
			return fmt.Errorf("restart: %w", err)
		}
	}
	return nil
}

// suspend pauses both worker tasks and puts the sensor into standby as
// one coupled transition. The tasks are never paused independently.
func (l *Lifecycle) suspend(ct wallclock.CalendarTime) {
	l.Sampler.Suspend()
	l.Broadcaster.Suspend()
	if err := l.Sensor.Standby(); err != nil {
		l.Logger.Warn("sensor standby failed", "error", err)
	}
	l.Logger.Info("tasks suspended", "at", ct)
}

// resume is the inverse coupled transition: both tasks back to running
// and the sensor back to measuring.
func (l *Lifecycle) resume(ct wallclock.CalendarTime) {
	l.Sampler.Resume()
	l.Broadcaster.Resume()
	if err := l.Sensor.Measure(); err != nil {
		l.Logger.Warn("sensor measure failed", "error", err)
	}
	l.Logger.Info("tasks resumed", "at", ct)
}
