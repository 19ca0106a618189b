package sensor

import (
	"testing"

	"plantmon-go/errcode"
	"plantmon-go/platform"
)

func simConfig(descs []Descriptor, sim *platform.Sim) Config {
	return Config{
		Descriptors: descs,
		I2C:         sim.I2C,
		OneWire:     sim.Probe,
		Analog:      sim.ADC,
		Sleeper:     sim.Clock,
	}
}

func TestCapacityExceeded(t *testing.T) {
	descs := make([]Descriptor, DefaultCapacity+1)
	for i := range descs {
		descs[i] = Descriptor{Kind: KindSoilAnalog, Name: "s", Channel: i}
	}
	_, err := New(simConfig(descs, platform.NewSim()))
	if !errcode.Is(err, errcode.ConfigError) {
		t.Fatalf("expected config_error, got %v", err)
	}
}

func TestAddressCollision(t *testing.T) {
	descs := []Descriptor{
		{Kind: KindAHT10, Name: "a", Addr: 0x38, Enabled: true},
		{Kind: KindAHT10, Name: "b", Addr: 0x38, Enabled: true},
	}
	_, err := New(simConfig(descs, platform.NewSim()))
	if !errcode.Is(err, errcode.ConfigError) {
		t.Fatalf("expected config_error, got %v", err)
	}
}

func TestUnknownKind(t *testing.T) {
	descs := []Descriptor{{Kind: "thermocouple", Name: "x", Enabled: true}}
	_, err := New(simConfig(descs, platform.NewSim()))
	if !errcode.Is(err, errcode.ConfigError) {
		t.Fatalf("expected config_error, got %v", err)
	}
}

func TestMissingBusIsFatal(t *testing.T) {
	descs := []Descriptor{{Kind: KindAHT10, Name: "a", Addr: 0x38, Enabled: true}}
	_, err := New(Config{Descriptors: descs}) // no I2C handle
	if !errcode.Is(err, errcode.ConfigError) {
		t.Fatalf("expected config_error, got %v", err)
	}
}

func TestPollAllHappyPath(t *testing.T) {
	sim := platform.NewSim()
	descs := []Descriptor{
		{Kind: KindAHT10, Name: "aht10-a", Addr: 0x38, Enabled: true},
		{Kind: KindAHT10, Name: "aht10-b", Addr: 0x39, Enabled: true},
		{Kind: KindBH1750, Name: "gy302", Addr: 0x23, Enabled: true},
		{Kind: KindDS18B20, Name: "soil-temp", Pin: 4, Enabled: true},
		{Kind: KindSoilAnalog, Name: "soil", Channel: 0, Enabled: true},
		{Kind: KindLightAnalog, Name: "light", Channel: 1, Enabled: true},
	}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readings, valid := reg.PollAll()
	if len(readings) != 6 {
		t.Fatalf("got %d readings, want 6", len(readings))
	}
	if valid != 6 {
		for _, rd := range readings {
			if !rd.Valid {
				t.Logf("%s: %v", rd.Name, rd.Err)
			}
		}
		t.Fatalf("valid = %d, want 6", valid)
	}
	for _, rd := range readings {
		if rd.TsMs == 0 {
			t.Errorf("%s: missing timestamp", rd.Name)
		}
	}
}

func TestPollAllPartialFailure(t *testing.T) {
	sim := platform.NewSim()
	sim.I2C.Remove(0x39) // one sensor stops acking

	descs := []Descriptor{
		{Kind: KindAHT10, Name: "aht10-a", Addr: 0x38, Enabled: true},
		{Kind: KindAHT10, Name: "aht10-b", Addr: 0x39, Enabled: true},
		{Kind: KindBH1750, Name: "gy302", Addr: 0x23, Enabled: true},
	}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readings, valid := reg.PollAll()
	if len(readings) != 3 {
		t.Fatalf("got %d readings, want 3: one failure must not abort the rest", len(readings))
	}
	if valid != 2 {
		t.Fatalf("valid = %d, want 2", valid)
	}
	for _, rd := range readings {
		if rd.Name == "aht10-b" {
			if rd.Valid {
				t.Error("missing sensor reported valid")
			}
			if rd.ErrCode() != errcode.BusError {
				t.Errorf("error code %q, want bus_error", rd.ErrCode())
			}
		}
	}
}

func TestDisabledNotPolled(t *testing.T) {
	sim := platform.NewSim()
	descs := []Descriptor{
		{Kind: KindAHT10, Name: "on", Addr: 0x38, Enabled: true},
		{Kind: KindAHT10, Name: "off", Addr: 0x39, Enabled: false},
	}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readings, valid := reg.PollAll()
	if len(readings) != 1 || valid != 1 {
		t.Fatalf("got %d readings (%d valid), want 1 (1)", len(readings), valid)
	}
	if readings[0].Name != "on" {
		t.Errorf("polled %q, want the enabled sensor", readings[0].Name)
	}
}

func TestNotReadyClassification(t *testing.T) {
	sim := platform.NewSim()
	sim.AHT10A.ForceBusy = true

	descs := []Descriptor{{Kind: KindAHT10, Name: "busy", Addr: 0x38, Enabled: true}}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readings, valid := reg.PollAll()
	if valid != 0 {
		t.Fatalf("valid = %d, want 0", valid)
	}
	if readings[0].ErrCode() != errcode.NotReady {
		t.Errorf("error code %q, want not_ready", readings[0].ErrCode())
	}
}

func TestDS18B20FullStack(t *testing.T) {
	sim := platform.NewSim()
	sim.Probe.TemperatureC = 21.5

	descs := []Descriptor{{Kind: KindDS18B20, Name: "soil-temp", Pin: 4, Enabled: true}}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readings, valid := reg.PollAll()
	if valid != 1 {
		t.Fatalf("valid = %d, want 1 (err %v)", valid, readings[0].Err)
	}
	if readings[0].Temperature == nil || *readings[0].Temperature != 21.5 {
		t.Errorf("temperature %v, want 21.5", readings[0].Temperature)
	}
}

func TestDS18B20AbsentClassifiedNotFound(t *testing.T) {
	sim := platform.NewSim()
	sim.Probe.Present = false

	descs := []Descriptor{{Kind: KindDS18B20, Name: "soil-temp", Enabled: true}}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err) // bring-up failure is non-fatal
	}

	readings, valid := reg.PollAll()
	if valid != 0 {
		t.Fatalf("valid = %d, want 0", valid)
	}
	if readings[0].ErrCode() != errcode.NotFound {
		t.Errorf("error code %q, want not_found", readings[0].ErrCode())
	}
}

func TestDS18B20CRCClassifiedBusError(t *testing.T) {
	sim := platform.NewSim()
	sim.Probe.CorruptCRC = true

	descs := []Descriptor{{Kind: KindDS18B20, Name: "soil-temp", Enabled: true}}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readings, _ := reg.PollAll()
	if readings[0].ErrCode() != errcode.BusError {
		t.Errorf("error code %q, want bus_error", readings[0].ErrCode())
	}
}

func TestAnalogChannels(t *testing.T) {
	sim := platform.NewSim()
	sim.ADC.Set(0, 1234)
	sim.ADC.Set(1, 4321)

	descs := []Descriptor{
		{Kind: KindSoilAnalog, Name: "soil", Channel: 0, Enabled: true},
		{Kind: KindLightAnalog, Name: "light", Channel: 1, Enabled: true},
	}
	reg, err := New(simConfig(descs, sim))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	readings, valid := reg.PollAll()
	if valid != 2 {
		t.Fatalf("valid = %d, want 2", valid)
	}
	if readings[0].SoilMoisture == nil || *readings[0].SoilMoisture != 1234 {
		t.Errorf("soil = %v, want 1234", readings[0].SoilMoisture)
	}
	if readings[1].LightLevel == nil || *readings[1].LightLevel != 4321 {
		t.Errorf("light = %v, want 4321", readings[1].LightLevel)
	}
}

func TestScanBus(t *testing.T) {
	sim := platform.NewSim() // devices at 0x23, 0x38, 0x39
	reg, err := New(Config{I2C: sim.I2C, Sleeper: sim.Clock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	found := reg.ScanBus()
	want := []uint16{0x23, 0x38, 0x39}
	if len(found) != len(want) {
		t.Fatalf("found %#v, want %#v", found, want)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("found[%d] = 0x%02X, want 0x%02X", i, found[i], want[i])
		}
	}
}

func TestSummarizeAverages(t *testing.T) {
	t1, t2 := 20.0, 24.0
	h := 50.0
	soil := uint16(2000)
	readings := []Reading{
		{Name: "a", Valid: true, Temperature: &t1, Humidity: &h},
		{Name: "b", Valid: true, Temperature: &t2},
		{Name: "c", Valid: true, SoilMoisture: &soil},
		{Name: "bad", Valid: false, Temperature: &t1}, // invalid: excluded
	}

	s := Summarize(readings)
	if s.ValidCount != 3 {
		t.Errorf("ValidCount = %d, want 3", s.ValidCount)
	}
	if s.Temperature == nil || *s.Temperature != 22.0 {
		t.Errorf("temperature %v, want 22.0", s.Temperature)
	}
	if s.Humidity == nil || *s.Humidity != 50.0 {
		t.Errorf("humidity %v, want 50.0", s.Humidity)
	}
	if s.SoilMoisture == nil || *s.SoilMoisture != 2000 {
		t.Errorf("soil %v, want 2000", s.SoilMoisture)
	}
	if s.Lux != nil || s.LightLevel != nil {
		t.Error("quantities with no readings must stay nil")
	}
}
