// Package radio sends telemetry packets over the node's short-range
// wireless link. Telemetry is best effort: a failed send is reported to
// the caller once and never retried.
package radio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PacketSize is the fixed wire size of an encoded Packet.
const PacketSize = 16

// Packet is one telemetry sample. ID is a constant identifying the
// node; receivers use it to tell nodes apart on a shared link.
type Packet struct {
	ID int32
	X  float32
	Y  float32
	Z  float32
}

// Bytes encodes the packet as a fixed-layout little-endian block:
// id at [0:4], then x, y, z as float32.
func (p Packet) Bytes() []byte {
	b := make([]byte, PacketSize)
	binary.LittleEndian.PutUint32(b[0:4], uint32(p.ID))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(p.X))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(p.Y))
	binary.LittleEndian.PutUint32(b[12:16], math.Float32bits(p.Z))
	return b
}

// ParsePacket decodes a block produced by Bytes.
func ParsePacket(b []byte) (Packet, error) {
	if len(b) != PacketSize {
		return Packet{}, fmt.Errorf("packet length %d, want %d", len(b), PacketSize)
	}
	return Packet{
		ID: int32(binary.LittleEndian.Uint32(b[0:4])),
		X:  math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		Y:  math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
		Z:  math.Float32frombits(binary.LittleEndian.Uint32(b[12:16])),
	}, nil
}

// Radio is a wireless link to one fixed destination. The broadcaster
// wakes the radio, sends one packet and puts the radio back to sleep
// every cycle, keeping air time and power draw bounded.
type Radio interface {
	// Wake powers the radio up for one send cycle.
	Wake() error

	// Send transmits one packet to the configured destination and
	// waits for the hardware completion report. The caller logs and
	// drops the error; it never retries.
	Send(p Packet) error

	// Sleep powers the radio down until the next cycle.
	Sleep() error

	// Close releases the link for good.
	Close() error
}

// Noop is a Radio for nodes deployed without a wireless link; the node
// then only records to storage.
type Noop struct{}

func (Noop) Wake() error       { return nil }
func (Noop) Send(Packet) error { return nil }
func (Noop) Sleep() error      { return nil }
func (Noop) Close() error      { return nil }
