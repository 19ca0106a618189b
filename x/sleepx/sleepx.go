// Package sleepx isolates blocking delays behind one primitive so protocol
// drivers can be unit-tested with a recorded clock instead of real time.
package sleepx

import "time"

// Sleeper is the single delay primitive used by all protocol drivers.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Real sleeps on the wall clock.
type Real struct{}

func (Real) Sleep(d time.Duration) { time.Sleep(d) }

// Mock records requested delays without sleeping. Intended for tests.
type Mock struct {
	Slept []time.Duration
}

func (m *Mock) Sleep(d time.Duration) { m.Slept = append(m.Slept, d) }

// Total returns the sum of recorded delays.
func (m *Mock) Total() time.Duration {
	var t time.Duration
	for _, d := range m.Slept {
		t += d
	}
	return t
}
