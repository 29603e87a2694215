// Package period converts captured counter edges into period measurements
// in microseconds, compensating for counter wraparound between edges.
package period

import "time"

// Config holds the timing constants of the counter driving the capture
// channel. They come from whatever clock/timer setup the surrounding system
// performs and are fixed for the lifetime of an Estimator.
type Config struct {
	// TickRateMHz is the counter clock frequency in MHz, before prescale.
	TickRateMHz uint32 `json:"tick_rate_mhz"`

	// PrescaleExp is the power-of-two divider exponent applied to the clock.
	PrescaleExp uint32 `json:"prescale_exp"`

	// WrapSpan is the counter's full wraparound span including reload
	// overhead (top value + 2).
	WrapSpan uint32 `json:"wrap_span"`
}

// DefaultConfig returns the timing constants of the reference hardware:
// a 19 MHz counter with no prescale and a 16-bit wraparound span.
func DefaultConfig() Config {
	return Config{
		TickRateMHz: 19,
		PrescaleExp: 0,
		WrapSpan:    65536,
	}
}

// Divisor returns the tick-to-microsecond divisor.
func (c Config) Divisor() uint32 {
	return c.TickRateMHz * (1 << c.PrescaleExp)
}

// WrapPeriodUS returns the duration of one full counter wraparound in
// microseconds. The caller must poll at least once per wraparound or
// periods silently read short.
func (c Config) WrapPeriodUS() uint32 {
	return c.WrapSpan / c.Divisor()
}

// Status represents the confidence in a single measurement.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSuspect Status = "suspect"
	StatusUnknown Status = "unknown"
)

// Measurement is a single period reading, as handed to the reporter.
type Measurement struct {
	Source      string    `json:"source"`
	PeriodUS    uint32    `json:"period_us"`
	ElapsedTick uint32    `json:"elapsed_ticks"`
	Overflows   uint32    `json:"overflows"`
	FrequencyHz float64   `json:"frequency_hz"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// Limits defines the operating range used to flag suspect measurements.
type Limits struct {
	// MinPeriodUS is the shortest trustworthy period. Readings below it
	// imply an input frequency past the measurable ceiling.
	MinPeriodUS uint32

	// MaxPeriodUS flags implausibly long readings (0 disables the check).
	MaxPeriodUS uint32
}

// DefaultLimits returns limits matching the reference hardware ceiling
// (333 kHz at 19 MHz, no prescale).
func DefaultLimits() Limits {
	return Limits{
		MinPeriodUS: 3,
		MaxPeriodUS: 0,
	}
}

// MaxFrequencyHz returns the measurable frequency ceiling implied by the
// minimum trustworthy period (333 kHz for the reference 3 us floor).
func (l Limits) MaxFrequencyHz() float64 {
	if l.MinPeriodUS == 0 {
		return 0
	}
	return 1e6 / float64(l.MinPeriodUS)
}

// Evaluate returns the status for a measured period. A zero period is OK:
// duplicate edge reads are tolerated, not errors.
func (l Limits) Evaluate(periodUS uint32) Status {
	if periodUS == 0 {
		return StatusOK
	}
	if periodUS < l.MinPeriodUS {
		return StatusSuspect
	}
	if l.MaxPeriodUS > 0 && periodUS > l.MaxPeriodUS {
		return StatusSuspect
	}
	return StatusOK
}

// Summary holds aggregate counts over a run of measurements.
type Summary struct {
	Total   int
	OK      int
	Suspect int
	Unknown int
}

// Summarize calculates summary statistics from measurements.
func Summarize(ms []Measurement) Summary {
	s := Summary{Total: len(ms)}
	for _, m := range ms {
		switch m.Status {
		case StatusOK:
			s.OK++
		case StatusSuspect:
			s.Suspect++
		case StatusUnknown:
			s.Unknown++
		}
	}
	return s
}
