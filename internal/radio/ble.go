//go:build linux

package radio

import (
	"fmt"
	"time"

	"tinygo.org/x/bluetooth"
)

// BLEConfig selects the adapter and the advertisement identity.
type BLEConfig struct {
	// Adapter is the BlueZ adapter id, "hci0" when empty.
	Adapter string

	// LocalName appears in the advertisement so receivers can filter.
	LocalName string

	// CompanyID tags the manufacturer data block carrying the packet.
	CompanyID uint16

	// AdvertiseFor is how long each packet stays on air before the
	// broadcaster puts the radio back to sleep.
	AdvertiseFor time.Duration
}

// BLEBeacon broadcasts packets as non-connectable BLE advertisements:
// the packet bytes ride in the manufacturer data field, so any listener
// in range can pick them up without pairing. Unlike the MQTT link the
// radio really is power-cycled per send: Send starts advertising and
// Sleep stops it.
type BLEBeacon struct {
	adapter *bluetooth.Adapter
	adv     *bluetooth.Advertisement
	cfg     BLEConfig
}

// NewBLEBeacon enables the adapter.
func NewBLEBeacon(cfg BLEConfig) (*BLEBeacon, error) {
	adapter := bluetooth.DefaultAdapter
	if cfg.Adapter != "" {
		adapter = bluetooth.NewAdapter(cfg.Adapter)
	}
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable bluetooth adapter: %w", err)
	}
	if cfg.AdvertiseFor <= 0 {
		cfg.AdvertiseFor = time.Second
	}
	return &BLEBeacon{
		adapter: adapter,
		adv:     adapter.DefaultAdvertisement(),
		cfg:     cfg,
	}, nil
}

// Wake is a no-op; the advertisement is configured per packet in Send.
func (b *BLEBeacon) Wake() error { return nil }

// Send puts the packet on air and keeps it advertising for the
// configured duration, blocking the caller until the air time is over.
func (b *BLEBeacon) Send(p Packet) error {
	opts := bluetooth.AdvertisementOptions{
		AdvertisementType: bluetooth.AdvertisingTypeNonConnInd,
		LocalName:         b.cfg.LocalName,
		ManufacturerData: []bluetooth.ManufacturerDataElement{
			{CompanyID: b.cfg.CompanyID, Data: p.Bytes()},
		},
	}
	if err := b.adv.Configure(opts); err != nil {
		return fmt.Errorf("configure advertisement: %w", err)
	}
	if err := b.adv.Start(); err != nil {
		return fmt.Errorf("start advertisement: %w", err)
	}
	time.Sleep(b.cfg.AdvertiseFor)
	return nil
}

// Sleep takes the advertisement off air.
func (b *BLEBeacon) Sleep() error {
	return b.adv.Stop()
}

// Close stops any advertisement still running. Stop on an idle
// advertisement only reports that nothing was on air, so the error is
// dropped.
func (b *BLEBeacon) Close() error {
	_ = b.adv.Stop()
	return nil
}
