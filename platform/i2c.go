package platform

import (
	"fmt"
)

// i2cTarget is one simulated device on the bus.
type i2cTarget interface {
	// tx mirrors drivers.I2C semantics from the device side: w is the write
	// phase (may be empty), r the repeated-start read phase to fill.
	tx(w, r []byte) error
}

// SimI2C is a simulated I2C bus. Addresses with no registered device NAK,
// which is what makes address scanning behave naturally.
type SimI2C struct {
	devices map[uint16]i2cTarget
}

// NewSimI2C creates an empty bus.
func NewSimI2C() *SimI2C {
	return &SimI2C{devices: map[uint16]i2cTarget{}}
}

// Register attaches a device model at addr.
func (b *SimI2C) Register(addr uint16, dev i2cTarget) {
	b.devices[addr] = dev
}

// Remove detaches the device at addr; subsequent transactions NAK.
func (b *SimI2C) Remove(addr uint16) {
	delete(b.devices, addr)
}

// Tx implements drivers.I2C.
func (b *SimI2C) Tx(addr uint16, w, r []byte) error {
	dev, ok := b.devices[addr]
	if !ok {
		return fmt.Errorf("i2c: no ack from 0x%02X", addr)
	}
	if len(w) == 0 && len(r) == 0 {
		return nil // bare address probe, device acked
	}
	return dev.tx(w, r)
}
