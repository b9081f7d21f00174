// Package adxl313 implements a driver for the Analog Devices ADXL313
// three-axis digital accelerometer over I2C.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/ADXL313.pdf
package adxl313

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address when the ALT ADDRESS pin is pulled high, and the
// alternate address when it is grounded.
const (
	Address    uint16 = 0x1D
	AddressAlt uint16 = 0x53
)

// Registers.
const (
	RegDevID0      = 0x00
	RegDevID1      = 0x01
	RegPartID      = 0x02
	RegRevID       = 0x03
	RegXID         = 0x04
	RegSoftReset   = 0x18
	RegOfsX        = 0x1E
	RegOfsY        = 0x1F
	RegOfsZ        = 0x20
	RegThreshAct   = 0x24
	RegThreshInact = 0x25
	RegTimeInact   = 0x26
	RegActInactCtl = 0x27
	RegBWRate      = 0x2C
	RegPowerCtl    = 0x2D
	RegIntEnable   = 0x2E
	RegIntMap      = 0x2F
	RegIntSource   = 0x30
	RegDataFormat  = 0x31
	RegDataX0      = 0x32
	RegDataX1      = 0x33
	RegDataY0      = 0x34
	RegDataY1      = 0x35
	RegDataZ0      = 0x36
	RegDataZ1      = 0x37
	RegFIFOCtl     = 0x38
	RegFIFOStatus  = 0x39
)

// Fixed identity register values.
const (
	devID0 = 0xAD
	devID1 = 0x1D
	partID = 0xCB
)

// Writing this code to RegSoftReset resets the part.
const softResetCode = 0x52

// POWER_CTL bits.
const pwrMeasure = 1 << 3

// INT_ENABLE / INT_SOURCE bits.
const intDataReady = 1 << 7

// DATA_FORMAT bits.
const (
	fmtFullRes   = 1 << 3
	fmtRangeMask = 0x03
)

// Range selects the measurement span. In full resolution mode the scale
// factor stays at 1024 counts/g for every range.
type Range uint8

const (
	RangeHalfG Range = 0x0 // ±0.5 g
	Range1G    Range = 0x1 // ±1 g
	Range2G    Range = 0x2 // ±2 g
	Range4G    Range = 0x3 // ±4 g
)

// Rate is the output data rate code written to BW_RATE. The device
// bandwidth is half the output data rate.
type Rate uint8

const (
	Rate6_25Hz Rate = 0x6
	Rate12_5Hz Rate = 0x7
	Rate25Hz   Rate = 0x8
	Rate50Hz   Rate = 0x9
	Rate100Hz  Rate = 0xA
	Rate200Hz  Rate = 0xB
	Rate400Hz  Rate = 0xC
	Rate800Hz  Rate = 0xD
	Rate1600Hz Rate = 0xE
	Rate3200Hz Rate = 0xF
)

// ErrBadIdentity is returned when the identity registers do not match
// an ADXL313.
var ErrBadIdentity = errors.New("adxl313: unexpected device identity")

// RangeForG maps a measurement span in g to its register code.
func RangeForG(g float64) (Range, error) {
	switch g {
	case 0.5:
		return RangeHalfG, nil
	case 1:
		return Range1G, nil
	case 2:
		return Range2G, nil
	case 4:
		return Range4G, nil
	default:
		return 0, fmt.Errorf("adxl313: range %vg: want 0.5, 1, 2 or 4", g)
	}
}

// RateForBandwidth maps a device bandwidth in Hz to the rate code
// giving that bandwidth (output data rate = 2 x bandwidth).
func RateForBandwidth(hz float64) (Rate, error) {
	switch hz {
	case 3.125:
		return Rate6_25Hz, nil
	case 6.25:
		return Rate12_5Hz, nil
	case 12.5:
		return Rate25Hz, nil
	case 25:
		return Rate50Hz, nil
	case 50:
		return Rate100Hz, nil
	case 100:
		return Rate200Hz, nil
	case 200:
		return Rate400Hz, nil
	case 400:
		return Rate800Hz, nil
	case 800:
		return Rate1600Hz, nil
	case 1600:
		return Rate3200Hz, nil
	default:
		return 0, fmt.Errorf("adxl313: bandwidth %v Hz: unsupported", hz)
	}
}

// Config holds the measurement setup applied by Configure.
type Config struct {
	Range          Range
	Rate           Rate
	FullResolution bool
}

// Device wraps an ADXL313 on an I2C bus.
type Device struct {
	bus     drivers.I2C
	Address uint16
}

// New creates a new ADXL313 handle on the given bus with the default
// address. The device is not touched until Configure is called.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Connected reports whether a device answering like an ADXL313 is
// present on the bus.
func (d *Device) Connected() bool {
	var buf [3]byte
	if err := d.readRegisters(RegDevID0, buf[:]); err != nil {
		return false
	}
	return buf[0] == devID0 && buf[1] == devID1 && buf[2] == partID
}

// Configure soft-resets the part, verifies its identity and applies
// cfg. The device is left in standby; call Measure to start sampling.
func (d *Device) Configure(cfg Config) error {
	if err := d.SoftReset(); err != nil {
		return fmt.Errorf("adxl313: soft reset: %w", err)
	}
	time.Sleep(5 * time.Millisecond)
	if !d.Connected() {
		return ErrBadIdentity
	}
	if err := d.Standby(); err != nil {
		return err
	}
	if err := d.SetRate(cfg.Rate); err != nil {
		return err
	}
	if err := d.SetRange(cfg.Range); err != nil {
		return err
	}
	if err := d.SetFullResolution(cfg.FullResolution); err != nil {
		return err
	}
	// Route the data-ready interrupt to INT1 for wired setups; polled
	// setups read INT_SOURCE, which reports it either way.
	if err := d.writeRegister(RegIntMap, 0x00); err != nil {
		return fmt.Errorf("adxl313: write INT_MAP: %w", err)
	}
	if err := d.writeRegister(RegIntEnable, intDataReady); err != nil {
		return fmt.Errorf("adxl313: write INT_ENABLE: %w", err)
	}
	return nil
}

// SoftReset restores the power-on register state.
func (d *Device) SoftReset() error {
	return d.writeRegister(RegSoftReset, softResetCode)
}

// Standby stops measurement. Register writes are only safe in standby.
func (d *Device) Standby() error {
	return d.updateRegister(RegPowerCtl, func(v uint8) uint8 { return v &^ pwrMeasure })
}

// Measure starts measurement.
func (d *Device) Measure() error {
	return d.updateRegister(RegPowerCtl, func(v uint8) uint8 { return v | pwrMeasure })
}

// SetRange selects the measurement span, preserving the other
// DATA_FORMAT bits.
func (d *Device) SetRange(r Range) error {
	return d.updateRegister(RegDataFormat, func(v uint8) uint8 {
		return v&^fmtRangeMask | uint8(r)&fmtRangeMask
	})
}

// SetRate sets the output data rate.
func (d *Device) SetRate(r Rate) error {
	return d.writeRegister(RegBWRate, uint8(r)&0x0F)
}

// SetFullResolution switches between full resolution (1024 counts/g at
// every range) and fixed 10-bit mode.
func (d *Device) SetFullResolution(on bool) error {
	return d.updateRegister(RegDataFormat, func(v uint8) uint8 {
		if on {
			return v | fmtFullRes
		}
		return v &^ fmtFullRes
	})
}

// DataReady reports whether a new sample is waiting in the data
// registers. Reading the data registers clears it.
func (d *Device) DataReady() (bool, error) {
	var buf [1]byte
	if err := d.readRegisters(RegIntSource, buf[:]); err != nil {
		return false, fmt.Errorf("adxl313: read INT_SOURCE: %w", err)
	}
	return buf[0]&intDataReady != 0, nil
}

// ReadAcceleration returns the current sample in raw counts. In full
// resolution mode one count is 1/1024 g.
func (d *Device) ReadAcceleration() (x, y, z int16, err error) {
	var buf [6]byte
	if err := d.readRegisters(RegDataX0, buf[:]); err != nil {
		return 0, 0, 0, fmt.Errorf("adxl313: read data registers: %w", err)
	}
	x = int16(binary.LittleEndian.Uint16(buf[0:2]))
	y = int16(binary.LittleEndian.Uint16(buf[2:4]))
	z = int16(binary.LittleEndian.Uint16(buf[4:6]))
	return x, y, z, nil
}

// SetOffsets writes the hardware offset adjustment registers. One LSB
// is 15.6 mg regardless of range.
func (d *Device) SetOffsets(x, y, z int8) error {
	if err := d.writeRegister(RegOfsX, uint8(x)); err != nil {
		return fmt.Errorf("adxl313: write OFSX: %w", err)
	}
	if err := d.writeRegister(RegOfsY, uint8(y)); err != nil {
		return fmt.Errorf("adxl313: write OFSY: %w", err)
	}
	if err := d.writeRegister(RegOfsZ, uint8(z)); err != nil {
		return fmt.Errorf("adxl313: write OFSZ: %w", err)
	}
	return nil
}

func (d *Device) readRegisters(reg uint8, buf []byte) error {
	return d.bus.Tx(d.Address, []byte{reg}, buf)
}

func (d *Device) writeRegister(reg uint8, val uint8) error {
	return d.bus.Tx(d.Address, []byte{reg, val}, nil)
}

func (d *Device) updateRegister(reg uint8, f func(uint8) uint8) error {
	var buf [1]byte
	if err := d.readRegisters(reg, buf[:]); err != nil {
		return fmt.Errorf("adxl313: read register 0x%02X: %w", reg, err)
	}
	if err := d.writeRegister(reg, f(buf[0])); err != nil {
		return fmt.Errorf("adxl313: write register 0x%02X: %w", reg, err)
	}
	return nil
}
