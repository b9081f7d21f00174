package datalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

func TestRecordLine(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "unpadded fields",
			rec: Record{
				Time:    wallclock.CalendarTime{Year: 2026, Month: 8, Day: 4, Hour: 6, Minute: 5, Second: 9},
				Reading: sample.Reading{X: 123, Y: -456, Z: 789},
			},
			want: "2026/8/4 6:5:9,123,-456,789,",
		},
		{
			name: "fractional counts truncate",
			rec: Record{
				Time:    wallclock.CalendarTime{Year: 2026, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59},
				Reading: sample.Reading{X: 1.9, Y: -1.9, Z: 0},
			},
			want: "2026/12/31 23:59:59,1,-1,0,",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Line(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	ct := wallclock.CalendarTime{Year: 2026, Month: 8, Day: 4}
	got := FileName(ct)
	if want := "logfile-2026-08-04.csv"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestFileAppenderCreatesWithHeader(t *testing.T) {
	dir := t.TempDir()
	ct := wallclock.CalendarTime{Year: 2026, Month: 8, Day: 24, Hour: 6, Minute: 12, Second: 11}

	a, err := NewFileAppender(dir, ct)
	if err != nil {
		t.Fatalf("NewFileAppender: %v", err)
	}
	rec := Record{Time: ct, Reading: sample.Reading{X: 10, Y: 20, Z: 30}}
	if err := a.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "logfile-2026-08-24.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "Date,X,Y,Z,\n2026/8/24 6:12:11,10,20,30,\n"
	if string(data) != want {
		t.Errorf("file contents = %q, want %q", data, want)
	}
}

func TestFileAppenderReopensWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	ct := wallclock.CalendarTime{Year: 2026, Month: 8, Day: 24, Hour: 6, Minute: 12, Second: 11}

	a, err := NewFileAppender(dir, ct)
	if err != nil {
		t.Fatalf("NewFileAppender: %v", err)
	}
	if err := a.Append(Record{Time: ct, Reading: sample.Reading{X: 1, Y: 2, Z: 3}}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	a.Close()

	// A second open of the same day's file appends after what is
	// already there.
	b, err := NewFileAppender(dir, ct)
	if err != nil {
		t.Fatalf("NewFileAppender (reopen): %v", err)
	}
	ct2 := ct
	ct2.Second = 12
	if err := b.Append(Record{Time: ct2, Reading: sample.Reading{X: 4, Y: 5, Z: 6}}); err != nil {
		t.Fatalf("Append (reopen): %v", err)
	}
	b.Close()

	data, err := os.ReadFile(b.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "Date,X,Y,Z,\n2026/8/24 6:12:11,1,2,3,\n2026/8/24 6:12:12,4,5,6,\n"
	if string(data) != want {
		t.Errorf("file contents = %q, want %q", data, want)
	}
}

func TestFileAppenderBadDir(t *testing.T) {
	ct := wallclock.CalendarTime{Year: 2026, Month: 8, Day: 24}
	if _, err := NewFileAppender(filepath.Join(t.TempDir(), "missing"), ct); err == nil {
		t.Fatal("NewFileAppender in a missing directory should fail")
	}
}
