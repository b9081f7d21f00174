//go:build linux

package accel

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/drivers/adxl313"
	"github.com/NaveenTheRipper/ESP32-ADXL313-Data-Logger-ESP-NOW-Telemetry/internal/sample"
)

// RealSensor is an ADXL313 on a Linux I2C character device. Data-ready
// is taken from the INT1 GPIO line when one is configured, otherwise it
// is polled from the interrupt source register.
type RealSensor struct {
	bus  i2c.BusCloser
	dev  adxl313.Device
	chip *gpiocdev.Chip
	int1 *gpiocdev.Line
}

// NewRealSensor opens the bus and configures the device, leaving it in
// standby. The boot sequence calls Measure once everything else is
// ready.
func NewRealSensor(cfg RealConfig) (*RealSensor, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus: %w", err)
	}

	dev := adxl313.New(bus)
	if cfg.Addr != 0 {
		dev.Address = cfg.Addr
	}
	if err := dev.Configure(adxl313.Config{
		Range:          cfg.Range,
		Rate:           cfg.Rate,
		FullResolution: cfg.FullResolution,
	}); err != nil {
		bus.Close()
		return nil, fmt.Errorf("configure accelerometer: %w", err)
	}

	s := &RealSensor{bus: bus, dev: dev}

	if cfg.Int1Pin >= 0 {
		chipName := cfg.Int1Chip
		if chipName == "" {
			chipName = "gpiochip0"
		}
		chip, err := gpiocdev.NewChip(chipName)
		if err != nil {
			bus.Close()
			return nil, fmt.Errorf("open gpio chip: %w", err)
		}
		line, err := chip.RequestLine(cfg.Int1Pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			chip.Close()
			bus.Close()
			return nil, fmt.Errorf("request INT1 pin %d: %w", cfg.Int1Pin, err)
		}
		s.chip = chip
		s.int1 = line
	}

	return s, nil
}

func (s *RealSensor) DataReady() (bool, error) {
	if s.int1 != nil {
		v, err := s.int1.Value()
		if err != nil {
			return false, fmt.Errorf("read INT1 pin: %w", err)
		}
		return v != 0, nil
	}
	return s.dev.DataReady()
}

func (s *RealSensor) Read() (sample.Reading, error) {
	x, y, z, err := s.dev.ReadAcceleration()
	if err != nil {
		return sample.Reading{}, err
	}
	return sample.Reading{X: float32(x), Y: float32(y), Z: float32(z)}, nil
}

func (s *RealSensor) Standby() error {
	return s.dev.Standby()
}

func (s *RealSensor) Measure() error {
	return s.dev.Measure()
}

// Close puts the device in standby and releases the GPIO line and bus.
func (s *RealSensor) Close() error {
	var errs []error

	if err := s.dev.Standby(); err != nil {
		errs = append(errs, fmt.Errorf("standby: %w", err))
	}
	if s.int1 != nil {
		if err := s.int1.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close INT1 pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close gpio chip: %w", err))
		}
	}
	if s.bus != nil {
		if err := s.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
