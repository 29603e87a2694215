package period

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghQQ/capmeter/pkg/capture"
)

// ErrNoSignal reports that no capture event arrived within the configured
// poll timeout. A permanently absent signal must not hang the process.
var ErrNoSignal = errors.New("no capture event within poll timeout")

// WaitMode selects how the runner waits for the next capture event.
type WaitMode int

const (
	// WaitSpin busy-waits on EdgeAvailable for minimum latency.
	WaitSpin WaitMode = iota

	// WaitYield calls runtime.Gosched between polls.
	WaitYield

	// WaitSleep sleeps briefly between polls, trading latency for CPU.
	WaitSleep
)

const sleepPollInterval = 50 * time.Microsecond

// Runner drives the polling loop: wait for an edge, compute the period,
// hand the measurement to the reporter callback. One runner owns one
// estimator and one source; the read-and-clear plus state mutation is a
// single-threaded step per edge, so interleaving two runners over the same
// source would double-count or lose overflows.
type Runner struct {
	est    *Estimator
	src    capture.Source
	limits Limits
	logger *logrus.Logger

	// WaitTimeout bounds the wait for a single edge. Zero means wait
	// forever.
	WaitTimeout time.Duration

	// Wait selects the polling strategy.
	Wait WaitMode
}

// NewRunner creates a runner for one estimator/source pair.
func NewRunner(est *Estimator, src capture.Source, limits Limits, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Runner{
		est:    est,
		src:    src,
		limits: limits,
		logger: logger,
	}
}

// Estimator returns the runner's estimator.
func (r *Runner) Estimator() *Estimator {
	return r.est
}

// waitForEdge polls until a capture event is available, the context is
// cancelled, or the timeout elapses. The overflow flag is tallied on every
// poll iteration so slow signals spanning several wraparounds stay counted.
func (r *Runner) waitForEdge(ctx context.Context) error {
	var deadline time.Time
	if r.WaitTimeout > 0 {
		deadline = time.Now().Add(r.WaitTimeout)
	}

	for !r.src.EdgeAvailable() {
		r.est.TallyOverflow(r.src)

		if err := ctx.Err(); err != nil {
			return err
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fmt.Errorf("%w (waited %v)", ErrNoSignal, r.WaitTimeout)
		}

		switch r.Wait {
		case WaitYield:
			runtime.Gosched()
		case WaitSleep:
			time.Sleep(sleepPollInterval)
		}
	}
	return nil
}

// RunOne waits for a single capture event and returns its measurement.
func (r *Runner) RunOne(ctx context.Context) (Measurement, error) {
	if err := r.waitForEdge(ctx); err != nil {
		r.logger.WithFields(logrus.Fields{
			"source": r.src.Name(),
			"error":  err,
		}).Warn("Poll failed")
		return Measurement{Source: r.src.Name(), Status: StatusUnknown, Description: err.Error()}, err
	}

	m := r.est.Measure(r.src, r.limits)
	r.logger.WithFields(logrus.Fields{
		"source":    m.Source,
		"period_us": m.PeriodUS,
		"overflows": m.Overflows,
		"status":    m.Status,
	}).Debug("Measured period")
	return m, nil
}

// Run performs count measurements (count <= 0 runs until ctx is cancelled),
// invoking report for each one. The first measurement after construction
// covers the span from counter start to the first edge and is delivered
// like any other; callers that only want edge-to-edge values skip it.
func (r *Runner) Run(ctx context.Context, count int, report func(Measurement)) error {
	r.logger.WithField("source", r.src.Name()).Debug("Starting poll loop")

	for i := 0; count <= 0 || i < count; i++ {
		m, err := r.RunOne(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if report != nil {
			report(m)
		}
	}
	return nil
}

// Collect performs count measurements and returns them as a slice.
func (r *Runner) Collect(ctx context.Context, count int) ([]Measurement, error) {
	ms := make([]Measurement, 0, count)
	err := r.Run(ctx, count, func(m Measurement) {
		ms = append(ms, m)
	})
	return ms, err
}
