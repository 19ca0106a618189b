package platform

import (
	"fmt"
)

// SimAHT10 models the AHT10 register protocol: soft reset, init/calibrate,
// trigger, status and the 6-byte measurement packet. Temperature and
// Humidity are the physical values the model encodes back into raw 20-bit
// fields, so driver decode round-trips exactly to the configured inputs
// (within quantization).
type SimAHT10 struct {
	Temperature float64 // degC
	Humidity    float64 // %RH

	// ForceBusy keeps the busy status bit set so collects return not-ready.
	ForceBusy bool
	// RefuseCalibration keeps the calibration bit clear after init.
	RefuseCalibration bool

	calibrated bool
	triggered  bool
}

func (d *SimAHT10) status() byte {
	var st byte
	if d.ForceBusy {
		st |= 0x80
	}
	if d.calibrated {
		st |= 0x08
	}
	return st
}

func (d *SimAHT10) tx(w, r []byte) error {
	if len(w) > 0 {
		switch w[0] {
		case 0xBA: // soft reset
			d.calibrated = false
			d.triggered = false
			return nil
		case 0xE1: // init + calibration load
			if !d.RefuseCalibration {
				d.calibrated = true
			}
			return nil
		case 0xAC: // trigger measurement
			d.triggered = true
			return nil
		case 0x71: // status
			if len(r) > 0 {
				r[0] = d.status()
			}
			return nil
		default:
			return fmt.Errorf("aht10 sim: unknown command 0x%02X", w[0])
		}
	}

	// Bare read: the 6-byte measurement packet.
	if len(r) < 6 {
		return fmt.Errorf("aht10 sim: short read (%d bytes)", len(r))
	}
	hraw := uint32(d.Humidity / 100.0 * (1 << 20))
	traw := uint32((d.Temperature + 50.0) / 200.0 * (1 << 20))
	r[0] = d.status()
	r[1] = byte(hraw >> 12)
	r[2] = byte(hraw >> 4)
	r[3] = byte(hraw&0x0F)<<4 | byte(traw>>16)&0x0F
	r[4] = byte(traw >> 8)
	r[5] = byte(traw)
	return nil
}
