// Package gpio provides a capture source backed by a sysfs GPIO pin with
// edge-triggered interrupts. The free-running counter is synthesized in
// software from the monotonic clock at the configured tick rate, wrapped
// and latch-flagged the way a hardware timer would be.
//
// Platform-specific implementation in gpio_linux.go; other platforms get a
// stub that fails at Open.
package gpio

import (
	"time"

	"github.com/ghQQ/capmeter/pkg/period"
)

// Edge selects which signal transition latches a capture.
type Edge string

const (
	EdgeRising  Edge = "rising"
	EdgeFalling Edge = "falling"
	EdgeBoth    Edge = "both"
)

// Config describes the pin and the synthesized counter.
type Config struct {
	// Pin is the kernel GPIO number (sysfs numbering).
	Pin int

	// Edge selects the capture transition. Defaults to falling, matching
	// the reference capture channel.
	Edge Edge

	// Timing drives the software counter emulation.
	Timing period.Config
}

// softCounter emulates a free-running hardware counter: raw values wrap at
// the configured span and a latched flag records that a wrap happened since
// the last clear.
type softCounter struct {
	start        time.Time
	ticksPerSec  uint64
	wrapSpan     uint64
	latched      uint32
	latchedAbs   uint64
	overflow     bool
	clearedEpoch uint64
}

func newSoftCounter(cfg period.Config) *softCounter {
	return &softCounter{
		start:       time.Now(),
		ticksPerSec: uint64(cfg.TickRateMHz) * 1e6 / (1 << cfg.PrescaleExp),
		wrapSpan:    uint64(cfg.WrapSpan),
	}
}

// latch captures the counter value at the current instant, setting the
// overflow flag if a wrap boundary was crossed since the last clear.
func (c *softCounter) latch() {
	elapsed := time.Since(c.start)
	// Split seconds and remainder to keep the product inside uint64.
	secs := uint64(elapsed / time.Second)
	frac := uint64(elapsed % time.Second)
	abs := secs*c.ticksPerSec + frac*c.ticksPerSec/uint64(time.Second)
	c.latched = uint32(abs % c.wrapSpan)
	c.latchedAbs = abs
	if abs/c.wrapSpan > c.clearedEpoch {
		c.overflow = true
	}
}

func (c *softCounter) read() uint32 { return c.latched }

func (c *softCounter) overflowed() bool { return c.overflow }

func (c *softCounter) clearOverflow() {
	c.overflow = false
	c.clearedEpoch = c.latchedAbs / c.wrapSpan
}
