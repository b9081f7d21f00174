package node

import (
	"errors"
	"testing"
	"time"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/accel"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/schedule"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/task"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

func at(h, m, s int) wallclock.CalendarTime {
	return wallclock.CalendarTime{Year: 2026, Month: 8, Day: 4, Hour: h, Minute: m, Second: s}
}

func testSchedule() schedule.Schedule {
	suspend := schedule.TimeOfDay{Hour: 21, Minute: 12, Second: 10}
	resume := schedule.TimeOfDay{Hour: 6, Minute: 12, Second: 10}
	return schedule.Schedule{
		SuspendAt: &suspend,
		ResumeAt:  &resume,
		RestartAt: []schedule.TimeOfDay{
			{Hour: 6, Minute: 16, Second: 10},
			{Hour: 6, Minute: 18, Second: 10},
		},
	}
}

func newLifecycle(src wallclock.Source) (*Lifecycle, *accel.FakeSensor, *FakeRestarter) {
	sensor := accel.NewFakeSensor(nil)
	restarter := &FakeRestarter{}
	l := &Lifecycle{
		Source:      src,
		Cache:       &wallclock.Cache{},
		Schedule:    testSchedule(),
		Sampler:     task.NewGate(),
		Broadcaster: task.NewGate(),
		Sensor:      sensor,
		Restarter:   restarter,
		Interval:    time.Millisecond,
		Logger:      discardLogger(),
	}
	return l, sensor, restarter
}

func TestLifecycleLeavesStatesAloneOffTrigger(t *testing.T) {
	src := &wallclock.FakeSource{Snapshots: []wallclock.CalendarTime{
		at(10, 0, 0), at(21, 12, 9), at(21, 12, 11), at(6, 12, 9),
	}}
	l, sensor, restarter := newLifecycle(src)

	for i := 0; i < 4; i++ {
		if err := l.controlOnce(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if l.Sampler.Suspended() || l.Broadcaster.Suspended() {
			t.Fatalf("tick %d: gates changed without a trigger", i)
		}
	}
	if sensor.StandbyCalls() != 0 || sensor.MeasureCalls() != 0 {
		t.Error("sensor power mode changed without a trigger")
	}
	if restarter.Calls() != 0 {
		t.Error("restart fired without a trigger")
	}
}

func TestLifecycleSuspendCouplesBothTasksAndSensor(t *testing.T) {
	src := &wallclock.FakeSource{Snapshots: []wallclock.CalendarTime{at(21, 12, 10)}}
	l, sensor, _ := newLifecycle(src)

	if err := l.controlOnce(); err != nil {
		t.Fatal(err)
	}
	if !l.Sampler.Suspended() {
		t.Error("sampler gate should be suspended")
	}
	if !l.Broadcaster.Suspended() {
		t.Error("broadcaster gate should be suspended")
	}
	if sensor.StandbyCalls() != 1 {
		t.Errorf("sensor standby calls = %d, want 1", sensor.StandbyCalls())
	}
}

func TestLifecycleResumeCouplesBothTasksAndSensor(t *testing.T) {
	src := &wallclock.FakeSource{Snapshots: []wallclock.CalendarTime{
		at(21, 12, 10), at(6, 12, 10),
	}}
	l, sensor, _ := newLifecycle(src)

	if err := l.controlOnce(); err != nil {
		t.Fatal(err)
	}
	if err := l.controlOnce(); err != nil {
		t.Fatal(err)
	}
	if l.Sampler.Suspended() {
		t.Error("sampler gate should be running again")
	}
	if l.Broadcaster.Suspended() {
		t.Error("broadcaster gate should be running again")
	}
	if sensor.MeasureCalls() != 1 {
		t.Errorf("sensor measure calls = %d, want 1", sensor.MeasureCalls())
	}
	if !sensor.Measuring() {
		t.Error("sensor should be measuring after resume")
	}
}

func TestLifecycleRestartTriggersFireIndependently(t *testing.T) {
	src := &wallclock.FakeSource{Snapshots: []wallclock.CalendarTime{
		at(6, 16, 10), at(6, 17, 0), at(6, 18, 10),
	}}
	l, _, restarter := newLifecycle(src)

	for i := 0; i < 3; i++ {
		if err := l.controlOnce(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	// The fake survives the first restart; both triggers must fire.
	if restarter.Calls() != 2 {
		t.Errorf("restart calls = %d, want 2", restarter.Calls())
	}
}

func TestLifecycleRestartFailureIsFatal(t *testing.T) {
	src := &wallclock.FakeSource{Snapshots: []wallclock.CalendarTime{at(6, 16, 10)}}
	l, _, _ := newLifecycle(src)
	execErr := errors.New("exec failed")
	l.Restarter = &FakeRestarter{Err: execErr}

	if err := l.controlOnce(); !errors.Is(err, execErr) {
		t.Fatalf("controlOnce = %v, want wrapped %v", err, execErr)
	}
}

func TestLifecyclePublishesSnapshotToCache(t *testing.T) {
	ct := at(10, 30, 0)
	src := &wallclock.FakeSource{Snapshots: []wallclock.CalendarTime{ct}}
	l, _, _ := newLifecycle(src)

	if err := l.controlOnce(); err != nil {
		t.Fatal(err)
	}
	if got := l.Cache.Load(); got != ct {
		t.Errorf("cache = %v, want %v", got, ct)
	}
}

func TestLifecycleSkipsInvalidSnapshot(t *testing.T) {
	good := at(10, 0, 0)
	src := &wallclock.FakeSource{Snapshots: []wallclock.CalendarTime{good, {}}}
	l, _, _ := newLifecycle(src)

	if err := l.controlOnce(); err != nil {
		t.Fatal(err)
	}
	if err := l.controlOnce(); err != nil {
		t.Fatal(err)
	}
	// The sentinel tick neither overwrites the cache nor acts.
	if got := l.Cache.Load(); got != good {
		t.Errorf("cache = %v, want the last good snapshot %v", got, good)
	}
	if l.Sampler.Suspended() || l.Broadcaster.Suspended() {
		t.Error("gates changed on a sentinel snapshot")
	}
}
