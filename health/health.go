// Package health derives a categorical verdict from the latest reading set.
// Scoring is a pure function of the current cycle only: no smoothing, no
// carried state, identical inputs always produce identical output.
package health

import (
	"plantmon-go/sensor"
	"plantmon-go/x/mathx"
)

// Category is the coarse verdict bucket.
type Category string

const (
	Excellent Category = "excellent"
	Good      Category = "good"
	Fair      Category = "fair"
	Poor      Category = "poor"
	Critical  Category = "critical"
	// Unknown is reported when zero quantities had any valid reading this
	// cycle. It is distinct from Critical: "we do not know" is not "bad".
	Unknown Category = "unknown"
)

// Verdict is the cycle's health summary.
type Verdict struct {
	Score          float64  `json:"score"` // 0-100
	Category       Category `json:"category"`
	Recommendation string   `json:"recommendation"`
	Symbol         string   `json:"symbol"`
}

// Span is an inclusive value range.
type Span struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports min <= v <= max.
func (s Span) Contains(v float64) bool { return mathx.Between(v, s.Min, s.Max) }

// Ranges configures the optimal and wider acceptable band per quantity.
type Ranges struct {
	TempOptimal        Span `json:"temp_optimal"`
	TempAcceptable     Span `json:"temp_acceptable"`
	HumidityOptimal    Span `json:"humidity_optimal"`
	HumidityAcceptable Span `json:"humidity_acceptable"`
	LuxOptimal         Span `json:"lux_optimal"`
	LuxAcceptable      Span `json:"lux_acceptable"`
}

// DefaultRanges are houseplant-friendly bands: 18-28 degC / 40-70 %RH
// optimal inside 10-35 / 30-80 acceptable, and 1000-10000 lx optimal inside
// 200-30000 lx acceptable.
func DefaultRanges() Ranges {
	return Ranges{
		TempOptimal:        Span{18, 28},
		TempAcceptable:     Span{10, 35},
		HumidityOptimal:    Span{40, 70},
		HumidityAcceptable: Span{30, 80},
		LuxOptimal:         Span{1000, 10000},
		LuxAcceptable:      Span{200, 30000},
	}
}

// scoreSpan grades one averaged quantity: 100 in the optimal sub-range, 50
// in the wider acceptable range, 0 otherwise.
func scoreSpan(v float64, optimal, acceptable Span) float64 {
	switch {
	case optimal.Contains(v):
		return 100
	case acceptable.Contains(v):
		return 50
	default:
		return 0
	}
}

// Score computes the verdict for one reading set. Each physical quantity
// (temperature, humidity, light) with at least one valid reading this cycle
// contributes one grade; the overall score averages only over quantities
// that reported. Light is graded on lux: raw analog counts are uncalibrated
// and never scored.
func Score(readings []sensor.Reading, r Ranges) Verdict {
	var tSum, hSum, luxSum float64
	var tN, hN, luxN int
	for _, rd := range readings {
		if !rd.Valid {
			continue
		}
		if rd.Temperature != nil {
			tSum += *rd.Temperature
			tN++
		}
		if rd.Humidity != nil {
			hSum += *rd.Humidity
			hN++
		}
		if rd.Lux != nil {
			luxSum += *rd.Lux
			luxN++
		}
	}

	var total float64
	quantities := 0
	if tN > 0 {
		total += scoreSpan(tSum/float64(tN), r.TempOptimal, r.TempAcceptable)
		quantities++
	}
	if hN > 0 {
		total += scoreSpan(hSum/float64(hN), r.HumidityOptimal, r.HumidityAcceptable)
		quantities++
	}
	if luxN > 0 {
		total += scoreSpan(luxSum/float64(luxN), r.LuxOptimal, r.LuxAcceptable)
		quantities++
	}

	if quantities == 0 {
		return Verdict{
			Score:          0,
			Category:       Unknown,
			Recommendation: "no data available",
			Symbol:         "?",
		}
	}
	return verdictFor(total / float64(quantities))
}

func verdictFor(score float64) Verdict {
	v := Verdict{Score: score}
	switch {
	case score >= 90:
		v.Category = Excellent
		v.Recommendation = "Perfect conditions! Keep it up."
		v.Symbol = ":)"
	case score >= 70:
		v.Category = Good
		v.Recommendation = "Good conditions. Monitor regularly."
		v.Symbol = ":]"
	case score >= 50:
		v.Category = Fair
		v.Recommendation = "Conditions are acceptable but could be better."
		v.Symbol = ":|"
	case score >= 30:
		v.Category = Poor
		v.Recommendation = "Conditions need improvement. Check temperature and humidity."
		v.Symbol = ":("
	default:
		v.Category = Critical
		v.Recommendation = "Immediate attention required! Check all conditions."
		v.Symbol = "!!"
	}
	return v
}
