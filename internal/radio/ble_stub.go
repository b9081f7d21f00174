//go:build !linux

package radio

import (
	"errors"
	"time"
)

// BLEConfig selects the adapter and the advertisement identity.
type BLEConfig struct {
	Adapter      string
	LocalName    string
	CompanyID    uint16
	AdvertiseFor time.Duration
}

// BLEBeacon is not available on non-Linux platforms.
type BLEBeacon struct{}

// NewBLEBeacon returns an error on non-Linux platforms.
func NewBLEBeacon(cfg BLEConfig) (*BLEBeacon, error) {
	return nil, errors.New("radio: ble beacon not supported on this platform (requires Linux)")
}

func (b *BLEBeacon) Wake() error       { return errors.New("radio: not supported") }
func (b *BLEBeacon) Send(Packet) error { return errors.New("radio: not supported") }
func (b *BLEBeacon) Sleep() error      { return errors.New("radio: not supported") }
func (b *BLEBeacon) Close() error      { return nil }
