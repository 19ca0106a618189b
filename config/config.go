// Package config holds the startup configuration: the sensor and display
// descriptor sets, health ranges and the poll cadence. It is consumed once
// at startup; descriptors are immutable for the process lifetime.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"plantmon-go/display"
	"plantmon-go/drivers/bh1750"
	"plantmon-go/health"
	"plantmon-go/sensor"
)

// Config is the full startup document.
type Config struct {
	PollIntervalMS int `json:"poll_interval_ms"`

	SensorCapacity  int                 `json:"sensor_capacity,omitempty"`
	DisplayCapacity int                 `json:"display_capacity,omitempty"`
	Sensors         []sensor.Descriptor `json:"sensors"`
	Displays        []display.Descriptor `json:"displays"`

	Health health.Ranges `json:"health"`

	// OneWireResolution is the single-wire conversion resolution (9-12).
	OneWireResolution uint8 `json:"onewire_resolution,omitempty"`
	// LightMode selects the bh1750 measurement mode:
	// "cont_high", "cont_high2", "cont_low", "one_high", "one_high2", "one_low".
	LightMode string `json:"light_mode,omitempty"`
}

// Default mirrors the classic two-AHT10 plant-monitor wiring: both I2C
// temperature/humidity sensors, a light sensor, a single-wire probe and the
// two analog channels, with a console display and a 30s cadence.
func Default() *Config {
	return &Config{
		PollIntervalMS:    30_000,
		OneWireResolution: 12,
		LightMode:         "one_high",
		Sensors: []sensor.Descriptor{
			{Kind: sensor.KindAHT10, Name: "aht10-a", Addr: 0x38, Enabled: true},
			{Kind: sensor.KindAHT10, Name: "aht10-b", Addr: 0x39, Enabled: true},
			{Kind: sensor.KindBH1750, Name: "gy302", Addr: 0x23, Enabled: true},
			{Kind: sensor.KindDS18B20, Name: "soil-temp", Pin: 4, Enabled: true},
			{Kind: sensor.KindSoilAnalog, Name: "soil-moisture", Channel: 0, Enabled: true},
			{Kind: sensor.KindLightAnalog, Name: "light-raw", Channel: 1, Enabled: true},
		},
		Displays: []display.Descriptor{
			{Kind: display.KindConsole, Name: "console", Enabled: true},
		},
		Health: health.DefaultRanges(),
	}
}

// Load reads a JSON config file. Fields absent from the file keep their
// Default() values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// PollInterval returns the cycle cadence, defaulting to 30s.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// ParsedLightMode maps the configured mode string to the driver opcode.
// Unknown strings fall back to one-shot high resolution.
func (c *Config) ParsedLightMode() bh1750.Mode {
	switch c.LightMode {
	case "cont_high":
		return bh1750.ModeContinuousHigh
	case "cont_high2":
		return bh1750.ModeContinuousHigh2
	case "cont_low":
		return bh1750.ModeContinuousLow
	case "one_high2":
		return bh1750.ModeOneTimeHigh2
	case "one_low":
		return bh1750.ModeOneTimeLow
	default:
		return bh1750.ModeOneTimeHigh
	}
}
