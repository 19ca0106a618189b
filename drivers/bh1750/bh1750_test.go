package bh1750

import (
	"math"
	"testing"
	"time"

	"tinygo.org/x/drivers"

	"plantmon-go/x/sleepx"
)

// Compile-time check.
var _ drivers.I2C = (*fakeI2C)(nil)

// Scripted BH1750-like fake: single-byte commands, big-endian data register.
type fakeI2C struct {
	raw    uint16
	writes []byte
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if len(w) > 0 {
		f.writes = append(f.writes, w[0])
		return nil
	}
	r[0] = byte(f.raw >> 8)
	r[1] = byte(f.raw)
	return nil
}

func TestConfigureSequence(t *testing.T) {
	f := &fakeI2C{}
	sl := &sleepx.Mock{}
	d := New(f, sl)

	if err := d.Configure(Config{Mode: ModeOneTimeHigh}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	want := []byte{0x01, 0x07, 0x20} // power on, reset, mode
	if len(f.writes) != len(want) {
		t.Fatalf("wrote %x, want %x", f.writes, want)
	}
	for i := range want {
		if f.writes[i] != want[i] {
			t.Errorf("command %d = 0x%02X, want 0x%02X", i, f.writes[i], want[i])
		}
	}
	// One-shot mode: Configure does not wait a conversion.
	if sl.Total() != 0 {
		t.Errorf("slept %v, want none for one-shot configure", sl.Total())
	}
}

func TestConfigureContinuousWaitsOneConversion(t *testing.T) {
	f := &fakeI2C{}
	sl := &sleepx.Mock{}
	d := New(f, sl)

	if err := d.Configure(Config{Mode: ModeContinuousHigh}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if sl.Total() != 180*time.Millisecond {
		t.Errorf("slept %v, want 180ms priming delay", sl.Total())
	}
}

func TestLuxDecode(t *testing.T) {
	f := &fakeI2C{raw: 5040} // 5040 / 1.2 = 4200 lx
	d := New(f, &sleepx.Mock{})
	if err := d.Configure(Config{Mode: ModeContinuousHigh}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	lux, raw, err := d.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if raw != 5040 {
		t.Errorf("raw = %d, want 5040", raw)
	}
	if math.Abs(lux-4200) > 0.001 {
		t.Errorf("lux = %v, want 4200", lux)
	}
}

func TestOneShotReissuesMode(t *testing.T) {
	f := &fakeI2C{raw: 1200}
	sl := &sleepx.Mock{}
	d := New(f, sl)
	if err := d.Configure(Config{Mode: ModeOneTimeHigh}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	f.writes = nil
	sl.Slept = nil

	for i := 0; i < 2; i++ {
		if _, _, err := d.Read(); err != nil {
			t.Fatalf("Read %d: %v", i, err)
		}
	}
	// Each read re-issues the mode opcode and waits one conversion.
	if len(f.writes) != 2 || f.writes[0] != 0x20 || f.writes[1] != 0x20 {
		t.Errorf("mode re-issues %x, want [20 20]", f.writes)
	}
	if sl.Total() != 360*time.Millisecond {
		t.Errorf("slept %v, want 2x180ms", sl.Total())
	}
}

func TestContinuousReadSkipsModeWrite(t *testing.T) {
	f := &fakeI2C{raw: 1200}
	sl := &sleepx.Mock{}
	d := New(f, sl)
	if err := d.Configure(Config{Mode: ModeContinuousHigh}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	f.writes = nil
	sl.Slept = nil

	if _, _, err := d.Read(); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(f.writes) != 0 {
		t.Errorf("continuous read wrote %x, want nothing", f.writes)
	}
	if sl.Total() != 0 {
		t.Errorf("continuous read slept %v, want none", sl.Total())
	}
}

func TestConversionTimes(t *testing.T) {
	cases := []struct {
		mode Mode
		want time.Duration
	}{
		{ModeContinuousHigh, 180 * time.Millisecond},
		{ModeContinuousHigh2, 180 * time.Millisecond},
		{ModeContinuousLow, 24 * time.Millisecond},
		{ModeOneTimeHigh, 180 * time.Millisecond},
		{ModeOneTimeHigh2, 180 * time.Millisecond},
		{ModeOneTimeLow, 24 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := tc.mode.ConversionTime(); got != tc.want {
			t.Errorf("ConversionTime(0x%02X) = %v, want %v", byte(tc.mode), got, tc.want)
		}
	}
}

func TestOneShotClassification(t *testing.T) {
	oneShot := []Mode{ModeOneTimeHigh, ModeOneTimeHigh2, ModeOneTimeLow}
	continuous := []Mode{ModeContinuousHigh, ModeContinuousHigh2, ModeContinuousLow}
	for _, m := range oneShot {
		if !m.OneShot() {
			t.Errorf("mode 0x%02X should be one-shot", byte(m))
		}
	}
	for _, m := range continuous {
		if m.OneShot() {
			t.Errorf("mode 0x%02X should be continuous", byte(m))
		}
	}
}

func TestSetModeAndPowerControl(t *testing.T) {
	f := &fakeI2C{}
	d := New(f, &sleepx.Mock{})

	if err := d.SetMode(ModeContinuousLow); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if d.Mode() != ModeContinuousLow {
		t.Errorf("Mode() = 0x%02X, want 0x13", byte(d.Mode()))
	}
	if err := d.PowerDown(); err != nil {
		t.Fatalf("PowerDown: %v", err)
	}
	want := []byte{0x13, 0x00}
	for i := range want {
		if f.writes[i] != want[i] {
			t.Errorf("command %d = 0x%02X, want 0x%02X", i, f.writes[i], want[i])
		}
	}
}
