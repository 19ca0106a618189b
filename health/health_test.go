package health

import (
	"testing"

	"plantmon-go/sensor"
)

func reading(temp, hum, lux *float64) sensor.Reading {
	return sensor.Reading{Valid: true, Temperature: temp, Humidity: hum, Lux: lux}
}

func f(v float64) *float64 { return &v }

func TestOptimalConditionsExcellent(t *testing.T) {
	readings := []sensor.Reading{
		reading(f(23), f(55), nil),
		reading(nil, nil, f(5000)),
	}
	v := Score(readings, DefaultRanges())
	if v.Score < 90 {
		t.Errorf("score %v, want >= 90", v.Score)
	}
	if v.Category != Excellent {
		t.Errorf("category %q, want excellent", v.Category)
	}
	if v.Symbol != ":)" {
		t.Errorf("symbol %q, want :)", v.Symbol)
	}
}

func TestOutOfRangeCritical(t *testing.T) {
	readings := []sensor.Reading{reading(f(5), f(10), nil)} // cold and dry
	v := Score(readings, DefaultRanges())
	if v.Score >= 30 {
		t.Errorf("score %v, want < 30", v.Score)
	}
	if v.Category != Critical {
		t.Errorf("category %q, want critical", v.Category)
	}
}

func TestAcceptableScoresHalf(t *testing.T) {
	// 12 degC: outside 18-28 optimal, inside 10-35 acceptable.
	readings := []sensor.Reading{reading(f(12), nil, nil)}
	v := Score(readings, DefaultRanges())
	if v.Score != 50 {
		t.Errorf("score %v, want 50", v.Score)
	}
	if v.Category != Fair {
		t.Errorf("category %q, want fair", v.Category)
	}
}

func TestNoValidReadingsUnknown(t *testing.T) {
	readings := []sensor.Reading{
		{Valid: false, Temperature: f(23)}, // invalid: ignored
	}
	v := Score(readings, DefaultRanges())
	if v.Category != Unknown {
		t.Errorf("category %q, want unknown", v.Category)
	}
	if v.Score != 0 {
		t.Errorf("score %v, want 0", v.Score)
	}
	if v.Symbol != "?" {
		t.Errorf("symbol %q, want ?", v.Symbol)
	}
}

func TestMissingQuantityExcludedFromAverage(t *testing.T) {
	// Only temperature reported, and it's optimal: the score must be 100,
	// not dragged down by absent humidity/light.
	readings := []sensor.Reading{reading(f(23), nil, nil)}
	v := Score(readings, DefaultRanges())
	if v.Score != 100 {
		t.Errorf("score %v, want 100", v.Score)
	}
}

func TestRawAnalogLightNeverScored(t *testing.T) {
	raw := uint16(4000)
	readings := []sensor.Reading{
		reading(f(23), f(55), nil),
		{Valid: true, LightLevel: &raw}, // uncalibrated counts
	}
	v := Score(readings, DefaultRanges())
	// Two quantities (temp, humidity), both optimal.
	if v.Score != 100 {
		t.Errorf("score %v, want 100: raw counts must not contribute", v.Score)
	}
}

func TestMultipleSensorsAveragedPerQuantity(t *testing.T) {
	// 17 and 27 degC average to 22, inside the optimal band even though one
	// sensor alone is outside it.
	readings := []sensor.Reading{
		reading(f(17), nil, nil),
		reading(f(27), nil, nil),
	}
	v := Score(readings, DefaultRanges())
	if v.Score != 100 {
		t.Errorf("score %v, want 100", v.Score)
	}
}

func TestCategoryThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Category
	}{
		{100, Excellent},
		{90, Excellent},
		{89.9, Good},
		{70, Good},
		{69.9, Fair},
		{50, Fair},
		{49.9, Poor},
		{30, Poor},
		{29.9, Critical},
		{0, Critical},
	}
	for _, tc := range cases {
		if v := verdictFor(tc.score); v.Category != tc.want {
			t.Errorf("verdictFor(%v) = %q, want %q", tc.score, v.Category, tc.want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	readings := []sensor.Reading{reading(f(23), f(55), f(5000))}
	a := Score(readings, DefaultRanges())
	b := Score(readings, DefaultRanges())
	if a != b {
		t.Errorf("identical input produced different verdicts: %+v vs %+v", a, b)
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Min: 10, Max: 20}
	for _, v := range []float64{10, 15, 20} {
		if !s.Contains(v) {
			t.Errorf("Contains(%v) = false, want true (bounds inclusive)", v)
		}
	}
	for _, v := range []float64{9.99, 20.01} {
		if s.Contains(v) {
			t.Errorf("Contains(%v) = true, want false", v)
		}
	}
}
