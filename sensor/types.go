// Package sensor unifies heterogeneous sensor drivers behind one
// configuration-driven registry with bulk polling and partial-failure
// semantics.
package sensor

import (
	"plantmon-go/errcode"
)

// Kind selects the family driver for a descriptor. Fixed at configuration
// time.
type Kind string

const (
	KindAHT10       Kind = "aht10"        // I2C temperature/humidity
	KindDS18B20     Kind = "ds18b20"      // single-wire temperature
	KindBH1750      Kind = "bh1750"       // I2C light intensity
	KindSoilAnalog  Kind = "soil_analog"  // raw analog soil moisture
	KindLightAnalog Kind = "light_analog" // raw analog ambient light
)

// Descriptor configures one sensor. Immutable for the process lifetime.
type Descriptor struct {
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	Addr    uint16 `json:"addr,omitempty"`    // I2C bus address
	Pin     int    `json:"pin,omitempty"`     // single-wire line pin (informational)
	Channel int    `json:"channel,omitempty"` // analog channel
	Enabled bool   `json:"enabled"`
}

// Reading is one poll result. It is produced fresh each cycle and never
// merged with prior cycles. Valid is true only when the protocol transaction
// completed AND the decoded value passed its plausibility check; otherwise
// Err carries the errcode-classified cause.
type Reading struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	Temperature  *float64 `json:"temperature,omitempty"`   // degC
	Humidity     *float64 `json:"humidity,omitempty"`      // %RH
	SoilMoisture *uint16  `json:"soil_moisture,omitempty"` // raw counts
	LightLevel   *uint16  `json:"light_level,omitempty"`   // raw counts
	Lux          *float64 `json:"lux,omitempty"`

	Valid bool  `json:"valid"`
	Err   error `json:"-"`
	TsMs  int64 `json:"ts_ms"`
}

// ErrCode returns the errcode classification of the reading's error.
func (r Reading) ErrCode() errcode.Code { return errcode.Of(r.Err) }

// AnalogReader supplies raw samples for the analog channels. No calibration
// curve is applied here; counts are passed through unscaled.
type AnalogReader interface {
	ReadRaw(channel int) (uint16, error)
}
