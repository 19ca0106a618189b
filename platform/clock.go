// Package platform provides a simulated hardware platform: a virtual clock
// plus bit- and register-accurate device models behind the same bus
// interfaces the real drivers use. It exists so the whole stack, from slot
// timing up to the poll loop, runs and is testable off-hardware.
package platform

import (
	"sync"
	"time"
)

// VirtualClock is a sleepx.Sleeper whose time only advances when someone
// sleeps on it. Device models share it with the drivers, which lets them
// measure pulse widths without wall-clock flakiness.
type VirtualClock struct {
	mu  sync.Mutex
	now int64 // microseconds since start
}

// Sleep advances virtual time; it never blocks.
func (c *VirtualClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now += int64(d / time.Microsecond)
	c.mu.Unlock()
}

// NowUs returns the current virtual time in microseconds.
func (c *VirtualClock) NowUs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
