// Package bh1750 provides a driver for the BH1750FVI ambient light sensor
// (sold on GY-302 breakout boards). Six measurement modes cross
// {continuous, one-shot} x {high-res, high-res-2, low-res}; one-shot modes
// power the device down after each measurement, so the mode command is
// re-issued before every read.
package bh1750

import (
	"time"

	"plantmon-go/x/sleepx"

	"tinygo.org/x/drivers"
)

// I2C addresses: 0x23 with ADDR low, 0x5C with ADDR high.
const (
	Address    = 0x23
	AddressAlt = 0x5C
)

// Instruction set.
const (
	cmdPowerDown = 0x00
	cmdPowerOn   = 0x01
	cmdReset     = 0x07
)

// Mode is one of the six measurement-mode opcodes.
type Mode byte

const (
	ModeContinuousHigh  Mode = 0x10 // 1 lx resolution, 180ms
	ModeContinuousHigh2 Mode = 0x11 // 0.5 lx resolution, 180ms
	ModeContinuousLow   Mode = 0x13 // 4 lx resolution, 24ms
	ModeOneTimeHigh     Mode = 0x20
	ModeOneTimeHigh2    Mode = 0x21
	ModeOneTimeLow      Mode = 0x23
)

// OneShot reports whether the mode powers down after each measurement.
func (m Mode) OneShot() bool { return m&0x20 != 0 }

// ConversionTime returns the mandated delay before data is valid:
// 180ms for the high-resolution modes, 24ms for low resolution.
func (m Mode) ConversionTime() time.Duration {
	if m&0x03 == 0x03 {
		return 24 * time.Millisecond
	}
	return 180 * time.Millisecond
}

// Config controls addressing and the measurement mode.
type Config struct {
	// Address defaults to 0x23 if zero.
	Address uint16
	// Mode defaults to ModeOneTimeHigh if zero.
	Mode Mode
}

// Device wraps an I2C connection to a BH1750.
type Device struct {
	bus drivers.I2C
	sl  sleepx.Sleeper
	cfg Config
	buf [2]byte
}

// New creates the device object without touching the bus.
// A nil sleeper defaults to the wall clock.
func New(bus drivers.I2C, sl sleepx.Sleeper) *Device {
	if sl == nil {
		sl = sleepx.Real{}
	}
	return &Device{bus: bus, sl: sl, cfg: Config{Address: Address, Mode: ModeOneTimeHigh}}
}

// Configure powers the sensor on, resets the data register and applies the
// measurement mode. For continuous modes it then waits one conversion so the
// first Read returns real data.
func (d *Device) Configure(cfgs ...Config) error {
	c := d.cfg
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address == 0 {
		c.Address = Address
	}
	if c.Mode == 0 {
		c.Mode = ModeOneTimeHigh
	}
	d.cfg = c

	if err := d.writeCmd(cmdPowerOn); err != nil {
		return err
	}
	if err := d.writeCmd(cmdReset); err != nil {
		return err
	}
	if err := d.writeCmd(byte(c.Mode)); err != nil {
		return err
	}
	if !c.Mode.OneShot() {
		d.sl.Sleep(c.Mode.ConversionTime())
	}
	return nil
}

func (d *Device) writeCmd(cmd byte) error {
	return d.bus.Tx(d.cfg.Address, []byte{cmd}, nil)
}

// Mode returns the active measurement mode.
func (d *Device) Mode() Mode { return d.cfg.Mode }

// SetMode switches the measurement mode.
func (d *Device) SetMode(m Mode) error {
	if err := d.writeCmd(byte(m)); err != nil {
		return err
	}
	d.cfg.Mode = m
	return nil
}

// PowerOn wakes the device.
func (d *Device) PowerOn() error { return d.writeCmd(cmdPowerOn) }

// PowerDown puts the device into its idle state.
func (d *Device) PowerDown() error { return d.writeCmd(cmdPowerDown) }

// Reset clears the data register. Only valid while powered on.
func (d *Device) Reset() error { return d.writeCmd(cmdReset) }

// Read returns the current illuminance. For one-shot modes the mode command
// is re-issued and the conversion delay is slept; continuous modes read the
// always-fresh data register directly.
//
// All modes decode as lux = raw / 1.2, matching observed module behaviour.
// The datasheet suggests high-res-2 halves the count per lux; verify against
// hardware before relying on ModeContinuousHigh2/ModeOneTimeHigh2 accuracy.
func (d *Device) Read() (lux float64, raw uint16, err error) {
	if d.cfg.Mode.OneShot() {
		if err = d.writeCmd(byte(d.cfg.Mode)); err != nil {
			return 0, 0, err
		}
		d.sl.Sleep(d.cfg.Mode.ConversionTime())
	}
	data := d.buf[:]
	if err = d.bus.Tx(d.cfg.Address, nil, data); err != nil {
		return 0, 0, err
	}
	raw = uint16(data[0])<<8 | uint16(data[1])
	return float64(raw) / 1.2, raw, nil
}
