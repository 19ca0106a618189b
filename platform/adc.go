package platform

import (
	"fmt"
)

// SimADC is a simulated multi-channel analog front end. Channels with no
// value configured read back as an error, matching a disconnected input.
type SimADC struct {
	Values map[int]uint16
}

// NewSimADC creates an ADC with the given channel values.
func NewSimADC(values map[int]uint16) *SimADC {
	if values == nil {
		values = map[int]uint16{}
	}
	return &SimADC{Values: values}
}

// Set updates one channel.
func (a *SimADC) Set(channel int, v uint16) { a.Values[channel] = v }

// ReadRaw implements sensor.AnalogReader.
func (a *SimADC) ReadRaw(channel int) (uint16, error) {
	v, ok := a.Values[channel]
	if !ok {
		return 0, fmt.Errorf("adc: channel %d not connected", channel)
	}
	return v, nil
}
