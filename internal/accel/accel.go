// Package accel provides three-axis acceleration sampling with
// hardware abstraction. The real implementation drives an ADXL313 on a
// Linux I2C bus. The fake implementation allows testing without
// hardware.
package accel

import (
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/drivers/adxl313"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
)

// Sensor reads acceleration samples.
type Sensor interface {
	// DataReady reports whether an unread sample is waiting.
	DataReady() (bool, error)

	// Read returns the newest sample in raw counts and clears the
	// data-ready flag.
	Read() (sample.Reading, error)

	// Standby halts the measurement engine while the node sleeps.
	Standby() error

	// Measure starts the measurement engine again.
	Measure() error

	// Close releases hardware resources.
	Close() error
}

// RealConfig selects the bus and measurement setup for the hardware
// sensor.
type RealConfig struct {
	// Bus is the I2C bus name; empty selects the first available bus.
	Bus string

	// Addr overrides the default device address when non-zero.
	Addr uint16

	Range          adxl313.Range
	Rate           adxl313.Rate
	FullResolution bool

	// Int1Pin is the GPIO line wired to the sensor's INT1 output.
	// When negative, data-ready is polled over I2C instead.
	Int1Pin int

	// Int1Chip is the GPIO chip holding Int1Pin, "gpiochip0" if empty.
	Int1Chip string
}
