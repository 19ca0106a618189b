package platform

// Sim bundles one fully-populated simulated board: a virtual clock, an I2C
// bus carrying two AHT10s and a BH1750, a single-wire temperature probe and
// a two-channel analog front end. It is the default backend for the daemon
// when no hardware port is compiled in, and the fixture for integration
// tests.
type Sim struct {
	Clock  *VirtualClock
	I2C    *SimI2C
	AHT10A *SimAHT10
	AHT10B *SimAHT10
	Light  *SimBH1750
	Probe  *SimDS18B20
	ADC    *SimADC
}

// NewSim builds the board with benign greenhouse defaults.
func NewSim() *Sim {
	clock := &VirtualClock{}
	bus := NewSimI2C()

	a := &SimAHT10{Temperature: 23.5, Humidity: 55.0}
	b := &SimAHT10{Temperature: 24.0, Humidity: 52.0}
	light := &SimBH1750{Lux: 4200}
	bus.Register(0x38, a)
	bus.Register(0x39, b)
	bus.Register(0x23, light)

	probe := NewSimDS18B20(clock)
	probe.TemperatureC = 21.5

	adc := NewSimADC(map[int]uint16{0: 2100, 1: 3000})

	return &Sim{Clock: clock, I2C: bus, AHT10A: a, AHT10B: b,
		Light: light, Probe: probe, ADC: adc}
}
