// Package onewire implements the bit/byte primitives of a single-wire bus:
// reset/presence detection and LSB-first byte transfer over one open-drain
// line with fixed microsecond slot timing.
//
// The bus assumes the caller already holds exclusive access to the line; no
// internal locking is performed. Delays go through a sleepx.Sleeper so the
// protocol logic is testable with a mock clock.
package onewire

import (
	"errors"
	"time"

	"plantmon-go/x/sleepx"
)

// Line is one GPIO-like open-drain line with an external pull-up.
type Line interface {
	// SetLow drives the line low.
	SetLow()
	// Release stops driving; the pull-up (or a device) sets the level.
	Release()
	// Sample returns the instantaneous line level, true = high.
	Sample() bool
}

// Slot timings in microseconds, per the standard one-wire slot table.
const (
	delaySlotStart     = 6   // initial low pulse of every slot
	delayWriteOne      = 64  // release-high tail of a write-1 slot
	delayWriteZeroHold = 60  // low hold of a write-0 slot
	delayWriteRecover  = 10  // recovery after a write-0 slot
	delayReadSetup     = 9   // release-to-sample window of a read slot
	delayReadRecover   = 55  // tail of a read slot
	delayResetLow      = 480 // reset pulse
	delayPresenceWait  = 70  // presence-sample window after release
	delayResetRecover  = 410 // recovery after presence sampling
)

// ErrNoDevice is returned by Reset when no device answers the presence
// window. It is a distinct, non-fatal outcome: the bus itself worked, there
// is simply nothing connected.
var ErrNoDevice = errors.New("onewire: no presence pulse")

// Bus drives one single-wire line.
type Bus struct {
	line Line
	sl   sleepx.Sleeper
}

// New wires a bus to a line. A nil sleeper defaults to the wall clock.
func New(line Line, sl sleepx.Sleeper) *Bus {
	if sl == nil {
		sl = sleepx.Real{}
	}
	return &Bus{line: line, sl: sl}
}

func (b *Bus) sleepUs(us int) { b.sl.Sleep(time.Duration(us) * time.Microsecond) }

// Reset issues a reset pulse and samples for a presence pulse. It returns
// nil when a device pulled the line low within the sample window and
// ErrNoDevice otherwise.
func (b *Bus) Reset() error {
	b.line.SetLow()
	b.sleepUs(delayResetLow)
	b.line.Release()
	b.sleepUs(delayPresenceWait)
	present := !b.line.Sample()
	b.sleepUs(delayResetRecover)
	if !present {
		return ErrNoDevice
	}
	return nil
}

// writeBit transmits one bit.
func (b *Bus) writeBit(bit bool) {
	b.line.SetLow()
	b.sleepUs(delaySlotStart)
	if bit {
		b.line.Release()
		b.sleepUs(delayWriteOne)
	} else {
		b.sleepUs(delayWriteZeroHold)
		b.line.Release()
		b.sleepUs(delayWriteRecover)
	}
}

// readBit samples one bit from the device.
func (b *Bus) readBit() bool {
	b.line.SetLow()
	b.sleepUs(delaySlotStart)
	b.line.Release()
	b.sleepUs(delayReadSetup)
	bit := b.line.Sample()
	b.sleepUs(delayReadRecover)
	return bit
}

// WriteByte transmits one byte, LSB first.
func (b *Bus) WriteByte(v byte) {
	for i := 0; i < 8; i++ {
		b.writeBit(v&0x01 != 0)
		v >>= 1
	}
}

// ReadByte receives one byte, LSB first.
func (b *Bus) ReadByte() byte {
	var v byte
	for i := 0; i < 8; i++ {
		v >>= 1
		if b.readBit() {
			v |= 0x80
		}
	}
	return v
}

// Read fills buf with consecutive bytes.
func (b *Bus) Read(buf []byte) {
	for i := range buf {
		buf[i] = b.ReadByte()
	}
}
