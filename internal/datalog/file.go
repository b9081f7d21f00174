package datalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/wallclock"
)

// FileAppender appends records to one CSV file, syncing after every
// write so that a removed card or a power cut loses at most the record
// in flight.
type FileAppender struct {
	path string
	f    *os.File
}

// NewFileAppender opens the day's log file under dir, creating it with
// the header row when it does not exist yet. Reopening an existing file
// appends to it without writing a second header.
func NewFileAppender(dir string, ct wallclock.CalendarTime) (*FileAppender, error) {
	path := filepath.Join(dir, FileName(ct))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if st.Size() == 0 {
		if _, err := f.WriteString(Header + "\n"); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return nil, fmt.Errorf("sync header: %w", err)
		}
	}
	return &FileAppender{path: path, f: f}, nil
}

// Path returns the file the appender writes to.
func (a *FileAppender) Path() string {
	return a.path
}

func (a *FileAppender) Append(rec Record) error {
	if _, err := a.f.WriteString(rec.Line() + "\n"); err != nil {
		return fmt.Errorf("append %s: %w", a.path, err)
	}
	if err := a.f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", a.path, err)
	}
	return nil
}

func (a *FileAppender) Close() error {
	return a.f.Close()
}
