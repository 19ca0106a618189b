package sensor

import "time"

// Summary is the per-cycle aggregate of one reading set: each physical
// quantity averaged over the sensors that reported it validly this cycle.
// It is the shape handed to displays and to the network/persistence side.
type Summary struct {
	Temperature  *float64 `json:"temperature,omitempty"`
	Humidity     *float64 `json:"humidity,omitempty"`
	SoilMoisture *uint16  `json:"soil_moisture,omitempty"`
	LightLevel   *uint16  `json:"light_level,omitempty"`
	Lux          *float64 `json:"lux,omitempty"`

	ValidCount int       `json:"valid_count"`
	Timestamp  time.Time `json:"timestamp"`

	// Uptime is filled in by the polling service, not by Summarize.
	Uptime time.Duration `json:"-"`
}

// Summarize averages each quantity over the valid readings that carry it.
// Quantities with no valid reading stay nil.
func Summarize(readings []Reading) Summary {
	s := Summary{Timestamp: time.Now()}

	var tSum, hSum, luxSum float64
	var tN, hN, luxN int
	var soilSum, lightSum, soilN, lightN int

	for _, r := range readings {
		if !r.Valid {
			continue
		}
		s.ValidCount++
		if r.Temperature != nil {
			tSum += *r.Temperature
			tN++
		}
		if r.Humidity != nil {
			hSum += *r.Humidity
			hN++
		}
		if r.Lux != nil {
			luxSum += *r.Lux
			luxN++
		}
		if r.SoilMoisture != nil {
			soilSum += int(*r.SoilMoisture)
			soilN++
		}
		if r.LightLevel != nil {
			lightSum += int(*r.LightLevel)
			lightN++
		}
	}

	if tN > 0 {
		v := tSum / float64(tN)
		s.Temperature = &v
	}
	if hN > 0 {
		v := hSum / float64(hN)
		s.Humidity = &v
	}
	if luxN > 0 {
		v := luxSum / float64(luxN)
		s.Lux = &v
	}
	if soilN > 0 {
		v := uint16(soilSum / soilN)
		s.SoilMoisture = &v
	}
	if lightN > 0 {
		v := uint16(lightSum / lightN)
		s.LightLevel = &v
	}
	return s
}
