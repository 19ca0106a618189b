// Package ds18b20 provides a driver for the DS18B20 single-wire temperature
// sensor. The design is single-device-per-bus: every transaction opens with
// reset + SkipROM, so no ROM search/addressing is performed.
//
// Conversion is blocking: Temperature() starts a conversion, sleeps for the
// resolution-appropriate delay and reads the scratchpad back. Callers who
// schedule their own delay can use StartConversion/ReadScratchpad directly.
package ds18b20

import (
	"errors"
	"time"

	"plantmon-go/x/sleepx"
)

// Wire is the byte-level single-wire transport (implemented by onewire.Bus).
type Wire interface {
	Reset() error
	WriteByte(b byte)
	ReadByte() byte
}

// ROM and function commands.
const (
	cmdSkipROM        = 0xCC
	cmdConvertTemp    = 0x44
	cmdReadScratchpad = 0xBE
	cmdWriteScratch   = 0x4E
	cmdCopyScratch    = 0x48
)

var (
	// ErrCRC is returned when the scratchpad trailing check byte is nonzero.
	// Simplified single-byte check; distinct from a missing presence pulse.
	ErrCRC = errors.New("ds18b20: scratchpad crc mismatch")
	// ErrResolution is returned for a resolution outside 9..12 bits.
	ErrResolution = errors.New("ds18b20: resolution out of range")
)

// Device is one DS18B20 on a dedicated single-wire bus.
type Device struct {
	w          Wire
	sl         sleepx.Sleeper
	resolution uint8
}

// New creates a device at the default 12-bit resolution.
// A nil sleeper defaults to the wall clock.
func New(w Wire, sl sleepx.Sleeper) *Device {
	if sl == nil {
		sl = sleepx.Real{}
	}
	return &Device{w: w, sl: sl, resolution: 12}
}

// ConversionTime returns the mandated conversion delay for a resolution:
// 94ms at 9 bits doubling up to 750ms at 12 bits.
func ConversionTime(resolution uint8) time.Duration {
	switch resolution {
	case 9:
		return 94 * time.Millisecond
	case 10:
		return 188 * time.Millisecond
	case 11:
		return 375 * time.Millisecond
	default:
		return 750 * time.Millisecond
	}
}

// Present reports whether a device answers the presence window.
func (d *Device) Present() bool { return d.w.Reset() == nil }

// Resolution returns the configured resolution in bits.
func (d *Device) Resolution() uint8 { return d.resolution }

// Configure sets the conversion resolution (9-12 bits) by writing the
// scratchpad configuration register and committing it to EEPROM.
func (d *Device) Configure(resolution uint8) error {
	if resolution < 9 || resolution > 12 {
		return ErrResolution
	}
	if err := d.w.Reset(); err != nil {
		return err
	}
	d.w.WriteByte(cmdSkipROM)
	d.w.WriteByte(cmdWriteScratch)
	d.w.WriteByte(0)                       // TH alarm register, unused
	d.w.WriteByte(0)                       // TL alarm register, unused
	d.w.WriteByte((resolution - 9) << 5)   // configuration register
	if err := d.w.Reset(); err != nil {
		return err
	}
	d.w.WriteByte(cmdSkipROM)
	d.w.WriteByte(cmdCopyScratch)
	d.sl.Sleep(10 * time.Millisecond) // EEPROM copy time
	d.resolution = resolution
	return nil
}

// StartConversion issues the convert-temperature command. The caller must
// wait ConversionTime(d.Resolution()) before reading the scratchpad.
func (d *Device) StartConversion() error {
	if err := d.w.Reset(); err != nil {
		return err
	}
	d.w.WriteByte(cmdSkipROM)
	d.w.WriteByte(cmdConvertTemp)
	return nil
}

// ReadScratchpad reads the 9-byte scratchpad and applies the simplified
// trailing-byte check.
func (d *Device) ReadScratchpad() ([9]byte, error) {
	var sp [9]byte
	if err := d.w.Reset(); err != nil {
		return sp, err
	}
	d.w.WriteByte(cmdSkipROM)
	d.w.WriteByte(cmdReadScratchpad)
	for i := range sp {
		sp[i] = d.w.ReadByte()
	}
	if sp[8] != 0 {
		return sp, ErrCRC
	}
	return sp, nil
}

// ReadResolution reads the resolution back from the scratchpad
// configuration register.
func (d *Device) ReadResolution() (uint8, error) {
	sp, err := d.ReadScratchpad()
	if err != nil {
		return 0, err
	}
	return ((sp[4] >> 5) & 0x03) + 9, nil
}

// Temperature performs a full blocking measurement: start conversion, sleep
// for the conversion delay, read the scratchpad and decode. The raw value is
// a 16-bit signed fixed-point count of 0.0625 degC.
func (d *Device) Temperature() (float64, error) {
	if err := d.StartConversion(); err != nil {
		return 0, err
	}
	d.sl.Sleep(ConversionTime(d.resolution))
	sp, err := d.ReadScratchpad()
	if err != nil {
		return 0, err
	}
	raw := int16(sp[1])<<8 | int16(sp[0])
	return float64(raw) * 0.0625, nil
}

// SearchDevices reports how many devices answer the bus. Multi-drop ROM
// search is not implemented; a presence pulse counts as exactly one device.
func (d *Device) SearchDevices() int {
	if d.Present() {
		return 1
	}
	return 0
}
