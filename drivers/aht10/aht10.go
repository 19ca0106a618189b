// Package aht10 provides a driver for the AHT10 temperature/humidity sensor.
// It exposes a two-phase measurement API:
//
//	d.Trigger()              // start a measurement (fast)
//	s, err := d.Collect()    // fetch when ready; returns ErrNotReady while busy
//
// For convenience, d.Read() performs trigger + conversion delay + collect.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package aht10

import (
	"errors"
	"time"

	"plantmon-go/x/sleepx"

	"tinygo.org/x/drivers"
)

// I2C addresses. The AHT10 ships at 0x38; boards strapping the address pin
// high answer at 0x39, which allows two sensors on one bus.
const (
	Address    = 0x38
	AddressAlt = 0x39
)

// Commands and status bits (per datasheet).
const (
	cmdInitialize = 0xE1
	cmdTrigger    = 0xAC
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

// Errors returned by the driver.
var (
	// ErrNotReady: the busy status bit was set; retry after a short delay.
	ErrNotReady = errors.New("aht10: not ready")
	// ErrNotCalibrated: the device never reported calibration after init.
	ErrNotCalibrated = errors.New("aht10: not calibrated")
	// ErrValidation: the transaction succeeded but the decoded value is
	// outside physical plausibility.
	ErrValidation = errors.New("aht10: reading outside plausible range")
)

// Plausibility bounds applied to decoded values.
const (
	humidityMin    = 0.0
	humidityMax    = 100.0
	temperatureMin = -50.0
	temperatureMax = 150.0
)

// Config controls addressing and timing. All fields are optional.
type Config struct {
	// Address defaults to 0x38 if zero.
	Address uint16
	// TriggerDelay is the fixed conversion delay between trigger and data
	// readout. Default 80 ms.
	TriggerDelay time.Duration
	// InitRetries bounds the calibration checks during Configure. Default 3.
	InitRetries int
	// RetryBackoff is slept between calibration checks. Default 20 ms.
	RetryBackoff time.Duration
}

// Sample is one decoded measurement in physical units.
type Sample struct {
	Temperature float64 // degC
	Humidity    float64 // %RH
	RawTemp     uint32
	RawHumidity uint32
}

// Device wraps an I2C connection to an AHT10.
type Device struct {
	bus drivers.I2C
	sl  sleepx.Sleeper
	cfg Config
	buf [6]byte
}

// New creates the device object without touching the bus.
// A nil sleeper defaults to the wall clock.
func New(bus drivers.I2C, sl sleepx.Sleeper) *Device {
	if sl == nil {
		sl = sleepx.Real{}
	}
	return &Device{bus: bus, sl: sl, cfg: Config{Address: Address}}
}

// Configure brings the sensor up: soft reset, 20ms settle, init command with
// the calibration trigger, 10ms settle, then a bounded calibration check.
// An uncalibrated device is polled InitRetries times with RetryBackoff
// between attempts before ErrNotCalibrated is returned.
func (d *Device) Configure(cfgs ...Config) error {
	c := d.cfg
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Address == 0 {
		c.Address = Address
	}
	if c.TriggerDelay <= 0 {
		c.TriggerDelay = 80 * time.Millisecond
	}
	if c.InitRetries <= 0 {
		c.InitRetries = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 20 * time.Millisecond
	}
	d.cfg = c

	if err := d.bus.Tx(c.Address, []byte{cmdSoftReset}, nil); err != nil {
		return err
	}
	d.sl.Sleep(20 * time.Millisecond)

	if err := d.bus.Tx(c.Address, []byte{cmdInitialize, 0x08, 0x00}, nil); err != nil {
		return err
	}
	d.sl.Sleep(10 * time.Millisecond)

	for i := 0; i < c.InitRetries; i++ {
		ok, err := d.IsCalibrated()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		d.sl.Sleep(c.RetryBackoff)
	}
	return ErrNotCalibrated
}

// Status reads the status byte.
func (d *Device) Status() (byte, error) {
	data := []byte{0}
	if err := d.bus.Tx(d.cfg.Address, []byte{cmdStatus}, data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// IsCalibrated reports the calibration status bit.
func (d *Device) IsCalibrated() (bool, error) {
	st, err := d.Status()
	if err != nil {
		return false, err
	}
	return st&statusCalibrated != 0, nil
}

// Trigger starts a measurement. It is a quick register write with no
// blocking; the device needs TriggerDelay() before Collect will succeed.
func (d *Device) Trigger() error {
	return d.bus.Tx(d.cfg.Address, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// TriggerDelay returns the mandated conversion delay after Trigger.
func (d *Device) TriggerDelay() time.Duration {
	if d.cfg.TriggerDelay > 0 {
		return d.cfg.TriggerDelay
	}
	return 80 * time.Millisecond
}

// Collect reads the 6-byte measurement packet and decodes it. If the busy
// status bit is set the packet is not decoded and ErrNotReady is returned.
// Decoded values outside plausibility bounds yield ErrValidation.
func (d *Device) Collect() (Sample, error) {
	var s Sample
	data := d.buf[:]
	if err := d.bus.Tx(d.cfg.Address, nil, data); err != nil {
		return s, err
	}
	if data[0]&statusBusy != 0 {
		return s, ErrNotReady
	}

	// Humidity: 20 bits spanning bytes 1-3. Temperature: 20 bits, bytes 3-5.
	hraw := uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4
	traw := uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5])

	s.RawHumidity = hraw
	s.RawTemp = traw
	s.Humidity = float64(hraw) / (1 << 20) * 100.0
	s.Temperature = float64(traw)/(1<<20)*200.0 - 50.0

	if s.Humidity < humidityMin || s.Humidity > humidityMax ||
		s.Temperature < temperatureMin || s.Temperature > temperatureMax {
		return s, ErrValidation
	}
	return s, nil
}

// Read performs a full measurement cycle: trigger, conversion delay, collect.
func (d *Device) Read() (Sample, error) {
	if err := d.Trigger(); err != nil {
		return Sample{}, err
	}
	d.sl.Sleep(d.TriggerDelay())
	return d.Collect()
}
