//go:build !linux

package accel

import (
	"errors"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
)

// RealSensor is not available on non-Linux platforms.
type RealSensor struct{}

// NewRealSensor returns an error on non-Linux platforms.
func NewRealSensor(cfg RealConfig) (*RealSensor, error) {
	return nil, errors.New("accel: not supported on this platform (requires Linux)")
}

func (s *RealSensor) DataReady() (bool, error) {
	return false, errors.New("accel: not supported")
}

func (s *RealSensor) Read() (sample.Reading, error) {
	return sample.Reading{}, errors.New("accel: not supported")
}

func (s *RealSensor) Standby() error { return errors.New("accel: not supported") }

func (s *RealSensor) Measure() error { return errors.New("accel: not supported") }

func (s *RealSensor) Close() error { return nil }
