// Package datalog writes acceleration records as CSV rows in per-day
// log files on the node's removable storage.
package datalog

import (
	"fmt"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

// Header is the first row of every log file.
const Header = "Date,X,Y,Z,"

// Record pairs one acceleration reading with the calendar time it was
// taken.
type Record struct {
	Time    wallclock.CalendarTime
	Reading sample.Reading
}

// Line renders the record as one CSV row: unpadded date-time, the three
// axes as whole counts, and a trailing comma. Readings hold raw sensor
// counts, so truncating the fractional part loses nothing.
func (r Record) Line() string {
	return fmt.Sprintf("%s,%d,%d,%d,", r.Time, int(r.Reading.X), int(r.Reading.Y), int(r.Reading.Z))
}

// FileName returns the log file name for the day of ct, for example
// "logfile-2026-08-24.csv". The node derives it once at startup; a run
// that crosses midnight keeps writing to the file it opened.
func FileName(ct wallclock.CalendarTime) string {
	return fmt.Sprintf("logfile-%04d-%02d-%02d.csv", ct.Year, ct.Month, ct.Day)
}

// Appender persists records. Append is called from the sampler loop
// only; implementations do not need to be safe for concurrent use.
type Appender interface {
	Append(rec Record) error
	Close() error
}
