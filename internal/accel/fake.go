package accel

import (
	"sync"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
)

// FakeSensor is a scripted Sensor for tests. Script fields are set
// before the node starts; state accessors are safe to call while the
// sampler and lifecycle goroutines are using the sensor.
type FakeSensor struct {
	// Readings are returned by Read in order. Once exhausted, Read
	// repeats the last one; with no script it returns zero readings.
	Readings []sample.Reading

	// Ready is consumed by DataReady in order; once exhausted,
	// DataReady reports true.
	Ready []bool

	// ReadyErr and ReadErr, if set, fail the matching call.
	ReadyErr error
	ReadErr  error

	mu        sync.Mutex
	readIdx   int
	readyIdx  int
	measuring bool
	standbys  int
	measures  int
	closed    bool
}

// NewFakeSensor creates a measuring FakeSensor with the given readings.
func NewFakeSensor(readings []sample.Reading) *FakeSensor {
	return &FakeSensor{Readings: readings, measuring: true}
}

func (f *FakeSensor) DataReady() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadyErr != nil {
		return false, f.ReadyErr
	}
	if f.readyIdx < len(f.Ready) {
		r := f.Ready[f.readyIdx]
		f.readyIdx++
		return r, nil
	}
	return true, nil
}

func (f *FakeSensor) Read() (sample.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadErr != nil {
		return sample.Reading{}, f.ReadErr
	}
	if len(f.Readings) == 0 {
		return sample.Reading{}, nil
	}
	r := f.Readings[f.readIdx]
	if f.readIdx < len(f.Readings)-1 {
		f.readIdx++
	}
	return r, nil
}

func (f *FakeSensor) Standby() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.measuring = false
	f.standbys++
	return nil
}

func (f *FakeSensor) Measure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.measuring = true
	f.measures++
	return nil
}

func (f *FakeSensor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Measuring reports whether the measurement engine is on.
func (f *FakeSensor) Measuring() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.measuring
}

// StandbyCalls returns how many times Standby was called.
func (f *FakeSensor) StandbyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.standbys
}

// MeasureCalls returns how many times Measure was called.
func (f *FakeSensor) MeasureCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.measures
}

// Closed reports whether Close was called.
func (f *FakeSensor) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
