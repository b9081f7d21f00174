// Package wallclock provides calendar time for the node.
// The real source is synchronized over NTP once at startup; until that
// sync has succeeded it reports a sentinel value that callers must treat
// as "clock not yet valid".
package wallclock

import (
	"fmt"
	"sync/atomic"
	"time"
)

// CalendarTime is a snapshot of the wall clock broken into calendar fields.
// The zero value is the sentinel meaning the clock has not synchronized yet.
type CalendarTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Valid reports whether the snapshot carries real time.
// A zero Year marks the "clock not yet valid" sentinel.
func (c CalendarTime) Valid() bool {
	return c.Year != 0
}

// String renders the snapshot as an unpadded "Y/M/D H:M:S" date-time,
// the prefix used for log records.
func (c CalendarTime) String() string {
	return fmt.Sprintf("%d/%d/%d %d:%d:%d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// FromTime converts a time.Time into calendar fields.
func FromTime(t time.Time) CalendarTime {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	return CalendarTime{
		Year:   year,
		Month:  int(month),
		Day:    day,
		Hour:   hour,
		Minute: min,
		Second: sec,
	}
}

// Source yields calendar time snapshots.
type Source interface {
	// Refresh returns the current calendar time. It must not block
	// indefinitely: if the clock is not yet valid it returns the
	// sentinel (zero) CalendarTime instead.
	Refresh() CalendarTime
}

// Cache is a shared cell holding the newest CalendarTime snapshot.
// One writer (the lifecycle controller) stores a fresh snapshot each
// control tick; readers (the sampler) load it for record timestamps.
// Loads never block and always observe a complete snapshot, though it
// may lag the writer by up to one control tick.
type Cache struct {
	snap atomic.Pointer[CalendarTime]
}

// Store publishes a new snapshot.
func (c *Cache) Store(ct CalendarTime) {
	c.snap.Store(&ct)
}

// Load returns the most recently stored snapshot, or the sentinel
// value if nothing has been stored yet.
func (c *Cache) Load() CalendarTime {
	if p := c.snap.Load(); p != nil {
		return *p
	}
	return CalendarTime{}
}
