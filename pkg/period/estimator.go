package period

import (
	"errors"
	"time"

	"github.com/ghQQ/capmeter/pkg/capture"
)

// ErrMissedOverflow reports that the counter wrapped between two polls
// without the overflow flag being tallied, so the computed period is
// shorter than the true elapsed time. Only returned by the checked
// variant; ComputePeriod itself stays silent.
var ErrMissedOverflow = errors.New("counter wrapped without an observed overflow flag")

// Estimator turns a sequence of captured counter edges into period
// measurements in microseconds. All state is carried between calls; the
// zero value of the state fields is the defined starting point, construct
// with New.
//
// Precondition: ComputePeriod must be called at least once per counter
// wraparound. The overflow flag is latched, not counted, so two or more
// wraps between calls collapse into a single tallied overflow and the
// result silently reads short. This matches the capture hardware and is
// deliberate.
type Estimator struct {
	cfg Config

	lastEdge      uint32
	overflowCount uint32
	period        uint32
}

// New creates an estimator with all state zero-initialized.
func New(cfg Config) *Estimator {
	return &Estimator{cfg: cfg}
}

// Config returns the timing constants the estimator was built with.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Period returns the most recent computed period in microseconds. This is
// the only value the reporter sees.
func (e *Estimator) Period() uint32 {
	return e.period
}

// OverflowCount returns the overflows tallied since the last measurement.
func (e *Estimator) OverflowCount() uint32 {
	return e.overflowCount
}

// LastEdge returns the raw counter value stored at the most recent edge.
func (e *Estimator) LastEdge() uint32 {
	return e.lastEdge
}

// TallyOverflow checks the source's latched overflow flag, incrementing the
// pending count and clearing the flag at the source if it was set. Safe to
// call between edges; ComputePeriod calls it once itself.
func (e *Estimator) TallyOverflow(src capture.Source) {
	if src.Overflowed() {
		e.overflowCount++
		src.ClearOverflow()
	}
}

// compute is the single implementation behind the public variants.
// It returns the period, the elapsed tick count, the overflows folded into
// this measurement, and whether a missed wrap was detectable.
func (e *Estimator) compute(src capture.Source) (period, ticks, overflows uint32, missed bool) {
	currentEdge := src.ReadTimestamp()

	e.TallyOverflow(src)

	missed = currentEdge < e.lastEdge && e.overflowCount == 0

	// overflowCount full wraps minus the old edge plus the new one,
	// in wrapping uint32 arithmetic.
	ticks = e.overflowCount*e.cfg.WrapSpan - e.lastEdge + currentEdge
	period = ticks / e.cfg.Divisor()
	overflows = e.overflowCount

	e.lastEdge = currentEdge
	e.overflowCount = 0
	e.period = period
	return period, ticks, overflows, missed
}

// ComputePeriod reads the latest captured edge from src and returns the
// elapsed time since the previous edge, in whole microseconds (floor
// division, sub-microsecond remainder discarded). It always produces a
// value; if the poll-once-per-wraparound precondition was violated the
// value is silently short.
func (e *Estimator) ComputePeriod(src capture.Source) uint32 {
	p, _, _, _ := e.compute(src)
	return p
}

// ComputePeriodChecked behaves exactly like ComputePeriod (same state
// transitions, same returned value) but additionally reports
// ErrMissedOverflow when the new edge precedes the stored one with no
// overflow tallied, which is the only detectable missed-wrap signature.
func (e *Estimator) ComputePeriodChecked(src capture.Source) (uint32, error) {
	p, _, _, missed := e.compute(src)
	if missed {
		return p, ErrMissedOverflow
	}
	return p, nil
}

// Measure runs ComputePeriod and wraps the result in a reporter-facing
// Measurement, evaluated against limits.
func (e *Estimator) Measure(src capture.Source, limits Limits) Measurement {
	p, ticks, overflows, _ := e.compute(src)

	m := Measurement{
		Source:      src.Name(),
		PeriodUS:    p,
		ElapsedTick: ticks,
		Overflows:   overflows,
		Status:      limits.Evaluate(p),
		At:          time.Now(),
	}
	if p > 0 {
		m.FrequencyHz = 1e6 / float64(p)
	}
	switch {
	case p == 0:
		m.Description = "duplicate edge read"
	case m.Status == StatusSuspect && p < limits.MinPeriodUS:
		m.Description = "input frequency above measurable ceiling"
	case m.Status == StatusSuspect:
		m.Description = "period outside configured range"
	default:
		m.Description = "period between two captured edges"
	}
	return m
}
