package platform

import (
	"fmt"
)

// SimBH1750 models the BH1750 instruction set: power control, reset and the
// six measurement-mode opcodes. Lux is the physical value encoded back at
// the standard 1.2 counts/lx sensitivity.
type SimBH1750 struct {
	Lux float64

	powered bool
	mode    byte

	// ModeWrites counts mode opcodes received; one-shot reads re-issue the
	// mode every time, which tests assert through this counter.
	ModeWrites int
}

func (d *SimBH1750) tx(w, r []byte) error {
	if len(w) > 0 {
		cmd := w[0]
		switch {
		case cmd == 0x00: // power down
			d.powered = false
		case cmd == 0x01: // power on
			d.powered = true
		case cmd == 0x07: // reset data register
			if !d.powered {
				return fmt.Errorf("bh1750 sim: reset while powered down")
			}
		case cmd&0x10 != 0 || cmd&0x20 != 0: // measurement mode
			d.powered = true
			d.mode = cmd
			d.ModeWrites++
		default:
			return fmt.Errorf("bh1750 sim: unknown command 0x%02X", cmd)
		}
		return nil
	}

	if len(r) < 2 {
		return fmt.Errorf("bh1750 sim: short read (%d bytes)", len(r))
	}
	raw := uint16(d.Lux * 1.2)
	r[0] = byte(raw >> 8)
	r[1] = byte(raw)
	return nil
}
