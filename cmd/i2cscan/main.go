// Command i2cscan probes all 128 I2C addresses on the simulated bus and
// prints the ones that answer. Diagnostic companion to plantmon -scan.
package main

import (
	"fmt"

	"plantmon-go/platform"
	"plantmon-go/sensor"
)

func main() {
	sim := platform.NewSim()

	reg, err := sensor.New(sensor.Config{I2C: sim.I2C, Sleeper: sim.Clock})
	if err != nil {
		fmt.Println("init failed:", err)
		return
	}

	found := reg.ScanBus()
	if len(found) == 0 {
		fmt.Println("no devices found")
		return
	}
	for _, addr := range found {
		fmt.Printf("device at 0x%02X\n", addr)
	}
}
