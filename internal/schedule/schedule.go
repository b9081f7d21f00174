// Package schedule implements the time-of-day rules that drive the node
// lifecycle. It is pure logic with no clock of its own: callers pass in
// calendar snapshots and act on the returned decisions.
package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

// TimeOfDay is a second-resolution point in the day.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM:SS" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM:SS", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("time of day %q: %w", s, err)
		}
		v[i] = n
	}
	td := TimeOfDay{Hour: v[0], Minute: v[1], Second: v[2]}
	if td.Hour < 0 || td.Hour > 23 || td.Minute < 0 || td.Minute > 59 || td.Second < 0 || td.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: out of range", s)
	}
	return td, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Matches reports whether ct falls on exactly this second of the day.
func (t TimeOfDay) Matches(ct wallclock.CalendarTime) bool {
	return ct.Hour == t.Hour && ct.Minute == t.Minute && ct.Second == t.Second
}

// Schedule is the set of configured trigger points. Nil SuspendAt or
// ResumeAt disables that trigger; an empty RestartAt disables restarts.
type Schedule struct {
	SuspendAt *TimeOfDay
	ResumeAt  *TimeOfDay
	RestartAt []TimeOfDay
}

// Actions is the decision for one control tick. When more than one
// trigger matches the same second, callers apply them in field order:
// suspend, then resume, then restart.
type Actions struct {
	Suspend bool
	Resume  bool
	Restart bool
}

// At evaluates the schedule against one calendar snapshot. An invalid
// (sentinel) snapshot never triggers anything. Matching is exact to the
// second: a snapshot for any other second, even one later than a missed
// trigger, does not fire it.
func (s Schedule) At(ct wallclock.CalendarTime) Actions {
	if !ct.Valid() {
		return Actions{}
	}
	var a Actions
	if s.SuspendAt != nil && s.SuspendAt.Matches(ct) {
		a.Suspend = true
	}
	if s.ResumeAt != nil && s.ResumeAt.Matches(ct) {
		a.Resume = true
	}
	for _, r := range s.RestartAt {
		if r.Matches(ct) {
			a.Restart = true
			break
		}
	}
	return a
}
