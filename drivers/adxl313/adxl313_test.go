package adxl313

import (
	"errors"
	"testing"
)

// busSim emulates the register file of one device on an I2C bus. A
// write transfer carries [register, value]; a read transfer writes the
// start register and reads sequential registers back.
type busSim struct {
	regs map[uint8]uint8
	err  error
	addr uint16
}

func newBusSim() *busSim {
	return &busSim{
		regs: map[uint8]uint8{
			RegDevID0: 0xAD,
			RegDevID1: 0x1D,
			RegPartID: 0xCB,
		},
	}
}

func (b *busSim) Tx(addr uint16, w, r []byte) error {
	b.addr = addr
	if b.err != nil {
		return b.err
	}
	if len(r) == 0 {
		b.regs[w[0]] = w[1]
		return nil
	}
	for i := range r {
		r[i] = b.regs[w[0]+uint8(i)]
	}
	return nil
}

func TestConnected(t *testing.T) {
	bus := newBusSim()
	dev := New(bus)
	if !dev.Connected() {
		t.Error("device with matching identity registers should be connected")
	}
	bus.regs[RegPartID] = 0x00
	if dev.Connected() {
		t.Error("device with wrong part id should not be connected")
	}
}

func TestConfigure(t *testing.T) {
	bus := newBusSim()
	dev := New(bus)
	cfg := Config{Range: Range2G, Rate: Rate100Hz, FullResolution: true}
	if err := dev.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if got := bus.regs[RegBWRate]; got != 0x0A {
		t.Errorf("BW_RATE = 0x%02X, want 0x0A", got)
	}
	if got := bus.regs[RegDataFormat]; got != fmtFullRes|uint8(Range2G) {
		t.Errorf("DATA_FORMAT = 0x%02X, want 0x%02X", got, fmtFullRes|uint8(Range2G))
	}
	if bus.regs[RegPowerCtl]&pwrMeasure != 0 {
		t.Error("Configure should leave the device in standby")
	}
	if got := bus.regs[RegIntEnable]; got != intDataReady {
		t.Errorf("INT_ENABLE = 0x%02X, want 0x%02X", got, intDataReady)
	}
	if bus.addr != Address {
		t.Errorf("bus address = 0x%02X, want 0x%02X", bus.addr, Address)
	}
}

func TestConfigureBadIdentity(t *testing.T) {
	bus := newBusSim()
	bus.regs[RegDevID1] = 0xFF
	dev := New(bus)
	err := dev.Configure(Config{Range: Range2G, Rate: Rate100Hz})
	if !errors.Is(err, ErrBadIdentity) {
		t.Fatalf("Configure = %v, want ErrBadIdentity", err)
	}
}

func TestConfigureBusError(t *testing.T) {
	bus := newBusSim()
	bus.err = errors.New("i2c: bus locked")
	dev := New(bus)
	if err := dev.Configure(Config{}); err == nil {
		t.Fatal("Configure on a failing bus should error")
	}
}

func TestMeasureStandby(t *testing.T) {
	bus := newBusSim()
	// Unrelated POWER_CTL bits survive the mode switch.
	bus.regs[RegPowerCtl] = 0x20
	dev := New(bus)

	if err := dev.Measure(); err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if got := bus.regs[RegPowerCtl]; got != 0x20|pwrMeasure {
		t.Errorf("POWER_CTL after Measure = 0x%02X, want 0x%02X", got, 0x20|pwrMeasure)
	}

	if err := dev.Standby(); err != nil {
		t.Fatalf("Standby: %v", err)
	}
	if got := bus.regs[RegPowerCtl]; got != 0x20 {
		t.Errorf("POWER_CTL after Standby = 0x%02X, want 0x20", got)
	}
}

func TestSetRangePreservesFormat(t *testing.T) {
	bus := newBusSim()
	bus.regs[RegDataFormat] = fmtFullRes | uint8(Range4G)
	dev := New(bus)
	if err := dev.SetRange(RangeHalfG); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	if got := bus.regs[RegDataFormat]; got != fmtFullRes {
		t.Errorf("DATA_FORMAT = 0x%02X, want 0x%02X", got, fmtFullRes)
	}
}

func TestDataReady(t *testing.T) {
	bus := newBusSim()
	dev := New(bus)

	ready, err := dev.DataReady()
	if err != nil {
		t.Fatalf("DataReady: %v", err)
	}
	if ready {
		t.Error("DataReady = true with INT_SOURCE clear")
	}

	bus.regs[RegIntSource] = intDataReady
	ready, err = dev.DataReady()
	if err != nil {
		t.Fatalf("DataReady: %v", err)
	}
	if !ready {
		t.Error("DataReady = false with DATA_READY set")
	}
}

func TestReadAcceleration(t *testing.T) {
	bus := newBusSim()
	// X = 300, Y = -2, Z = 0x0102, little endian low byte first.
	bus.regs[RegDataX0] = 0x2C
	bus.regs[RegDataX1] = 0x01
	bus.regs[RegDataY0] = 0xFE
	bus.regs[RegDataY1] = 0xFF
	bus.regs[RegDataZ0] = 0x02
	bus.regs[RegDataZ1] = 0x01
	dev := New(bus)

	x, y, z, err := dev.ReadAcceleration()
	if err != nil {
		t.Fatalf("ReadAcceleration: %v", err)
	}
	if x != 300 || y != -2 || z != 0x0102 {
		t.Errorf("ReadAcceleration = (%d, %d, %d), want (300, -2, 258)", x, y, z)
	}
}

func TestSetOffsets(t *testing.T) {
	bus := newBusSim()
	dev := New(bus)
	if err := dev.SetOffsets(1, -1, 0); err != nil {
		t.Fatalf("SetOffsets: %v", err)
	}
	if got := bus.regs[RegOfsX]; got != 0x01 {
		t.Errorf("OFSX = 0x%02X, want 0x01", got)
	}
	if got := bus.regs[RegOfsY]; got != 0xFF {
		t.Errorf("OFSY = 0x%02X, want 0xFF", got)
	}
	if got := bus.regs[RegOfsZ]; got != 0x00 {
		t.Errorf("OFSZ = 0x%02X, want 0x00", got)
	}
}

func TestRangeForG(t *testing.T) {
	tests := []struct {
		g    float64
		want Range
	}{
		{0.5, RangeHalfG},
		{1, Range1G},
		{2, Range2G},
		{4, Range4G},
	}
	for _, tt := range tests {
		got, err := RangeForG(tt.g)
		if err != nil {
			t.Fatalf("RangeForG(%v): %v", tt.g, err)
		}
		if got != tt.want {
			t.Errorf("RangeForG(%v) = 0x%X, want 0x%X", tt.g, got, tt.want)
		}
	}
	if _, err := RangeForG(8); err == nil {
		t.Error("RangeForG(8) should fail")
	}
}

func TestRateForBandwidth(t *testing.T) {
	tests := []struct {
		hz   float64
		want Rate
	}{
		{3.125, Rate6_25Hz},
		{50, Rate100Hz},
		{1600, Rate3200Hz},
	}
	for _, tt := range tests {
		got, err := RateForBandwidth(tt.hz)
		if err != nil {
			t.Fatalf("RateForBandwidth(%v): %v", tt.hz, err)
		}
		if got != tt.want {
			t.Errorf("RateForBandwidth(%v) = 0x%X, want 0x%X", tt.hz, got, tt.want)
		}
	}
	if _, err := RateForBandwidth(42); err == nil {
		t.Error("RateForBandwidth(42) should fail")
	}
}
