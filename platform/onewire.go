package platform

// SimDS18B20 is a bit-level model of a DS18B20 on a single-wire line. It
// shares a VirtualClock with the bus master and classifies slots purely by
// measured pulse width, the same way the silicon does:
//
//	low >= 400us              reset pulse; answer with a presence window
//	low >= 15us               write-0 slot
//	shorter low, sampled fast read slot (emit the next output bit)
//	shorter low, not sampled  write-1 slot (resolved at the next falling edge)
//
// Received bytes feed a command state machine covering SkipROM, ConvertT,
// Read/Write Scratchpad and Copy Scratchpad.
type SimDS18B20 struct {
	clock *VirtualClock

	// Present controls the presence answer; clear it to simulate an empty bus.
	Present bool
	// TemperatureC is the value encoded into the scratchpad on conversion.
	TemperatureC float64
	// CorruptCRC makes the scratchpad check byte nonzero.
	CorruptCRC bool

	// Conversions counts ConvertT commands received.
	Conversions int

	resolution uint8

	driving       bool
	lowStart      int64
	pendingShort  int64 // release time of an unclassified short low, -1 if none
	presenceUntil int64

	state      wireState
	inByte     byte
	inCount    uint8
	scratchIn  []byte
	outBits    []byte
	outIdx     int
	scratchpad [9]byte
}

type wireState int

const (
	wireIdle wireState = iota // no reset seen yet
	wireROM                   // expecting the ROM command
	wireFunc                  // expecting the function command
	wireWriteScratch          // collecting TH, TL, config
)

const (
	owResetThresholdUs = 400
	owZeroThresholdUs  = 15
	owReadSampleUs     = 15  // a sample this soon after release means a read slot
	owPresenceWidthUs  = 240 // presence pulse width after the reset release
)

// NewSimDS18B20 creates a present device at 12-bit resolution.
func NewSimDS18B20(clock *VirtualClock) *SimDS18B20 {
	return &SimDS18B20{
		clock:        clock,
		Present:      true,
		TemperatureC: 25.0,
		resolution:   12,
		pendingShort: -1,
	}
}

// Resolution returns the configured conversion resolution in bits.
func (d *SimDS18B20) Resolution() uint8 { return d.resolution }

// SetLow implements onewire.Line.
func (d *SimDS18B20) SetLow() {
	now := d.clock.NowUs()
	d.resolvePendingWrite1(now)
	d.driving = true
	d.lowStart = now
}

// Release implements onewire.Line.
func (d *SimDS18B20) Release() {
	if !d.driving {
		return
	}
	d.driving = false
	now := d.clock.NowUs()
	low := now - d.lowStart

	switch {
	case low >= owResetThresholdUs:
		d.state = wireROM
		d.inByte, d.inCount = 0, 0
		d.outBits, d.outIdx = nil, 0
		d.scratchIn = nil
		d.pendingShort = -1
		if d.Present {
			d.presenceUntil = now + owPresenceWidthUs
		}
	case low >= owZeroThresholdUs:
		d.receiveBit(0)
	default:
		d.pendingShort = now
	}
}

// Sample implements onewire.Line. True means the line reads high.
func (d *SimDS18B20) Sample() bool {
	now := d.clock.NowUs()
	if now <= d.presenceUntil {
		return !d.Present
	}
	if d.pendingShort >= 0 && now-d.pendingShort <= owReadSampleUs {
		d.pendingShort = -1
		return d.emitBit()
	}
	return true
}

// resolvePendingWrite1 classifies a stale short pulse: the master never
// sampled it, so it was a write-1 slot.
func (d *SimDS18B20) resolvePendingWrite1(now int64) {
	if d.pendingShort < 0 {
		return
	}
	if now-d.pendingShort > owReadSampleUs {
		d.pendingShort = -1
		d.receiveBit(1)
	}
}

func (d *SimDS18B20) receiveBit(bit byte) {
	if !d.Present || d.state == wireIdle {
		return
	}
	d.inByte |= bit << d.inCount
	d.inCount++
	if d.inCount == 8 {
		b := d.inByte
		d.inByte, d.inCount = 0, 0
		d.handleByte(b)
	}
}

func (d *SimDS18B20) emitBit() bool {
	if d.outIdx >= len(d.outBits)*8 {
		return true // nothing to send, line idles high
	}
	bit := d.outBits[d.outIdx/8]>>(d.outIdx%8)&1 != 0
	d.outIdx++
	return bit
}

func (d *SimDS18B20) handleByte(b byte) {
	switch d.state {
	case wireROM:
		if b == 0xCC { // SkipROM; the only ROM command in single-drop use
			d.state = wireFunc
		} else {
			d.state = wireIdle
		}
	case wireFunc:
		switch b {
		case 0x44: // ConvertT
			d.Conversions++
			d.buildScratchpad()
			d.state = wireIdle
		case 0xBE: // ReadScratchpad
			d.buildScratchpad()
			d.outBits = d.scratchpad[:]
			d.outIdx = 0
			d.state = wireIdle
		case 0x4E: // WriteScratchpad: TH, TL, config follow
			d.scratchIn = d.scratchIn[:0]
			d.state = wireWriteScratch
		case 0x48: // CopyScratchpad
			d.state = wireIdle
		default:
			d.state = wireIdle
		}
	case wireWriteScratch:
		d.scratchIn = append(d.scratchIn, b)
		if len(d.scratchIn) == 3 {
			d.resolution = (d.scratchIn[2]>>5)&0x03 + 9
			d.state = wireIdle
		}
	}
}

func (d *SimDS18B20) buildScratchpad() {
	raw := int16(d.TemperatureC / 0.0625)
	d.scratchpad[0] = byte(raw)
	d.scratchpad[1] = byte(raw >> 8)
	d.scratchpad[4] = (d.resolution - 9) << 5
	d.scratchpad[8] = 0
	if d.CorruptCRC {
		d.scratchpad[8] = 0xAA
	}
}
