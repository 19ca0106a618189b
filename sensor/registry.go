package sensor

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/drivers"

	"plantmon-go/drivers/aht10"
	"plantmon-go/drivers/bh1750"
	"plantmon-go/drivers/ds18b20"
	"plantmon-go/drivers/onewire"
	"plantmon-go/errcode"
	"plantmon-go/x/sleepx"
	"plantmon-go/x/timex"
)

// DefaultCapacity bounds the descriptor list unless Config overrides it.
const DefaultCapacity = 8

// Config wires the registry to its buses. Each bus is an explicit handle so
// independent registries (and tests) never share hidden state.
type Config struct {
	Descriptors []Descriptor
	// Capacity bounds len(Descriptors); DefaultCapacity if zero.
	Capacity int

	// I2C carries the aht10/bh1750 families. Required if any descriptor
	// uses them.
	I2C drivers.I2C
	// OneWire is the single-wire line; exactly one device per line.
	OneWire onewire.Line
	// Analog supplies the raw analog channels.
	Analog AnalogReader

	// Sleeper is shared by all drivers; defaults to the wall clock.
	Sleeper sleepx.Sleeper
	// Resolution is the single-wire conversion resolution, 9-12 bits
	// (default 12).
	Resolution uint8
	// LightMode is the bh1750 measurement mode (default one-shot high-res).
	LightMode bh1750.Mode

	Log logrus.FieldLogger
}

// probe binds one descriptor to its family driver. Dispatch is resolved here
// once, at configuration time, not per poll.
type probe interface {
	read() Reading
	bringUp() error
}

// Registry holds the ordered probe list for one sensor set.
//
// All polling is synchronous and blocking for each sensor's conversion delay.
// The registry itself does no locking: a single caller owns both buses. A
// multi-threaded host must hold a per-bus lock across each whole
// trigger-delay-read transaction, not per byte.
type Registry struct {
	descs  []Descriptor
	probes []probe // nil entry for disabled descriptors
	i2c    drivers.I2C
	log    logrus.FieldLogger
}

// New validates the descriptor set, performs one-time bus bring-up and
// resolves kind-to-driver dispatch. Descriptor-set problems (capacity,
// address collision, missing bus, unknown kind) are fatal and return a
// config_error. A sensor that fails its own bring-up is only logged: it
// stays registered and yields invalid readings until process restart (no
// mid-run re-initialization).
func New(cfg Config) (*Registry, error) {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(cfg.Descriptors) > capacity {
		return nil, &errcode.E{C: errcode.ConfigError, Op: "sensor.New",
			Msg: fmt.Sprintf("%d descriptors exceed capacity %d", len(cfg.Descriptors), capacity)}
	}
	if cfg.Sleeper == nil {
		cfg.Sleeper = sleepx.Real{}
	}
	if cfg.Resolution == 0 {
		cfg.Resolution = 12
	}
	if cfg.LightMode == 0 {
		cfg.LightMode = bh1750.ModeOneTimeHigh
	}
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	// All I2C descriptors share one bus: addresses must be distinct.
	seen := map[uint16]string{}
	for _, d := range cfg.Descriptors {
		if d.Kind != KindAHT10 && d.Kind != KindBH1750 {
			continue
		}
		if prev, dup := seen[d.Addr]; dup {
			return nil, &errcode.E{C: errcode.ConfigError, Op: "sensor.New",
				Msg: fmt.Sprintf("i2c address 0x%02X claimed by both %q and %q", d.Addr, prev, d.Name)}
		}
		seen[d.Addr] = d.Name
	}

	r := &Registry{descs: cfg.Descriptors, i2c: cfg.I2C, log: log}
	var wire ds18b20.Wire
	if cfg.OneWire != nil {
		wire = onewire.New(cfg.OneWire, cfg.Sleeper)
	}

	for _, d := range cfg.Descriptors {
		p, err := buildProbe(d, cfg, wire)
		if err != nil {
			return nil, err
		}
		if !d.Enabled {
			r.probes = append(r.probes, nil)
			continue
		}
		if err := p.bringUp(); err != nil {
			// Non-fatal: the sensor stays registered and polls will carry
			// its error in the Reading.
			log.WithError(err).WithField("sensor", d.Name).Warn("sensor bring-up failed")
		}
		r.probes = append(r.probes, p)
	}
	return r, nil
}

func buildProbe(d Descriptor, cfg Config, wire ds18b20.Wire) (probe, error) {
	switch d.Kind {
	case KindAHT10:
		if cfg.I2C == nil {
			return nil, missingBus(d, "i2c")
		}
		addr := d.Addr
		if addr == 0 {
			addr = aht10.Address
		}
		dev := aht10.New(cfg.I2C, cfg.Sleeper)
		return &aht10Probe{desc: d, addr: addr, dev: dev}, nil

	case KindBH1750:
		if cfg.I2C == nil {
			return nil, missingBus(d, "i2c")
		}
		addr := d.Addr
		if addr == 0 {
			addr = bh1750.Address
		}
		dev := bh1750.New(cfg.I2C, cfg.Sleeper)
		return &bh1750Probe{desc: d, addr: addr, mode: cfg.LightMode, dev: dev}, nil

	case KindDS18B20:
		if wire == nil {
			return nil, missingBus(d, "onewire")
		}
		dev := ds18b20.New(wire, cfg.Sleeper)
		return &ds18b20Probe{desc: d, resolution: cfg.Resolution, dev: dev}, nil

	case KindSoilAnalog, KindLightAnalog:
		if cfg.Analog == nil {
			return nil, missingBus(d, "analog")
		}
		return &analogProbe{desc: d, adc: cfg.Analog}, nil

	default:
		return nil, &errcode.E{C: errcode.ConfigError, Op: "sensor.New",
			Msg: fmt.Sprintf("unknown sensor kind %q (%s)", d.Kind, d.Name)}
	}
}

func missingBus(d Descriptor, bus string) error {
	return &errcode.E{C: errcode.ConfigError, Op: "sensor.New",
		Msg: fmt.Sprintf("sensor %q needs a %s bus but none is configured", d.Name, bus)}
}

// Descriptors returns the configured descriptor list.
func (r *Registry) Descriptors() []Descriptor { return r.descs }

// PollAll dispatches every enabled descriptor to its family driver and
// collects the results. A failure on one sensor never aborts polling of the
// others; the failed sensor's Reading has Valid=false and a classified error.
// It returns the readings and the count of valid ones.
func (r *Registry) PollAll() ([]Reading, int) {
	readings := make([]Reading, 0, len(r.probes))
	valid := 0
	for i, p := range r.probes {
		if p == nil {
			continue
		}
		rd := p.read()
		rd.TsMs = timex.NowMs()
		if rd.Valid {
			valid++
		} else {
			r.log.WithField("sensor", r.descs[i].Name).
				WithField("code", string(rd.ErrCode())).
				Debug("sensor poll failed")
		}
		readings = append(readings, rd)
	}
	return readings, valid
}

// ScanBus probes all 128 I2C addresses and reports which ACK, independent of
// the configured descriptors. Diagnostic only; not part of the poll path.
func (r *Registry) ScanBus() []uint16 {
	if r.i2c == nil {
		return nil
	}
	var found []uint16
	for addr := uint16(0); addr < 0x80; addr++ {
		if err := r.i2c.Tx(addr, []byte{}, nil); err == nil {
			found = append(found, addr)
		}
	}
	return found
}

// ---- probes ----

type aht10Probe struct {
	desc Descriptor
	addr uint16
	dev  *aht10.Device
}

func (p *aht10Probe) bringUp() error {
	err := p.dev.Configure(aht10.Config{Address: p.addr})
	if err == aht10.ErrNotCalibrated {
		// Bounded NotReady retries are exhausted inside Configure; escalate.
		return errcode.Wrap(errcode.BusError, "aht10.configure", err)
	}
	if err != nil {
		return errcode.Wrap(errcode.BusError, "aht10.configure", err)
	}
	return nil
}

func (p *aht10Probe) read() Reading {
	rd := Reading{Name: p.desc.Name, Kind: p.desc.Kind}
	s, err := p.dev.Read()
	switch {
	case err == nil:
		t, h := s.Temperature, s.Humidity
		rd.Temperature, rd.Humidity = &t, &h
		rd.Valid = true
	case err == aht10.ErrNotReady:
		rd.Err = errcode.Wrap(errcode.NotReady, "aht10.read", err)
	case err == aht10.ErrValidation:
		rd.Err = errcode.Wrap(errcode.ValidationError, "aht10.read", err)
	default:
		rd.Err = errcode.Wrap(errcode.BusError, "aht10.read", err)
	}
	return rd
}

type bh1750Probe struct {
	desc Descriptor
	addr uint16
	mode bh1750.Mode
	dev  *bh1750.Device
}

func (p *bh1750Probe) bringUp() error {
	if err := p.dev.Configure(bh1750.Config{Address: p.addr, Mode: p.mode}); err != nil {
		return errcode.Wrap(errcode.BusError, "bh1750.configure", err)
	}
	return nil
}

func (p *bh1750Probe) read() Reading {
	rd := Reading{Name: p.desc.Name, Kind: p.desc.Kind}
	lux, _, err := p.dev.Read()
	if err != nil {
		rd.Err = errcode.Wrap(errcode.BusError, "bh1750.read", err)
		return rd
	}
	rd.Lux = &lux
	rd.Valid = true
	return rd
}

// ds18b20 plausibility bounds: the part measures -55..125 degC.
const (
	ds18b20TempMin = -55.0
	ds18b20TempMax = 125.0
)

type ds18b20Probe struct {
	desc       Descriptor
	resolution uint8
	dev        *ds18b20.Device
}

func (p *ds18b20Probe) bringUp() error {
	if !p.dev.Present() {
		return errcode.Wrap(errcode.NotFound, "ds18b20.present", onewire.ErrNoDevice)
	}
	if p.resolution != 12 {
		if err := p.dev.Configure(p.resolution); err != nil {
			return errcode.Wrap(errcode.BusError, "ds18b20.configure", err)
		}
	}
	return nil
}

func (p *ds18b20Probe) read() Reading {
	rd := Reading{Name: p.desc.Name, Kind: p.desc.Kind}
	t, err := p.dev.Temperature()
	switch {
	case err == onewire.ErrNoDevice:
		rd.Err = errcode.Wrap(errcode.NotFound, "ds18b20.read", err)
	case err == ds18b20.ErrCRC:
		rd.Err = errcode.Wrap(errcode.BusError, "ds18b20.read", err)
	case err != nil:
		rd.Err = errcode.Wrap(errcode.BusError, "ds18b20.read", err)
	case t < ds18b20TempMin || t > ds18b20TempMax:
		rd.Err = errcode.Wrap(errcode.ValidationError, "ds18b20.read", nil)
	default:
		rd.Temperature = &t
		rd.Valid = true
	}
	return rd
}

type analogProbe struct {
	desc Descriptor
	adc  AnalogReader
}

func (p *analogProbe) bringUp() error { return nil }

func (p *analogProbe) read() Reading {
	rd := Reading{Name: p.desc.Name, Kind: p.desc.Kind}
	raw, err := p.adc.ReadRaw(p.desc.Channel)
	if err != nil {
		rd.Err = errcode.Wrap(errcode.BusError, "analog.read", err)
		return rd
	}
	if p.desc.Kind == KindSoilAnalog {
		rd.SoilMoisture = &raw
	} else {
		rd.LightLevel = &raw
	}
	rd.Valid = true
	return rd
}
