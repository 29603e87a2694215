package period

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghQQ/capmeter/pkg/capture/sim"
)

func TestRunnerCollect(t *testing.T) {
	src := sim.New("sim0", 65536)
	// Counter start, then edges 950 ticks apart (50 us at 19 MHz).
	src.Schedule(1000, 1950, 2900, 3850)

	r := NewRunner(New(testConfig()), src, DefaultLimits(), nil)
	r.WaitTimeout = time.Second

	ms, err := r.Collect(context.Background(), 4)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(ms) != 4 {
		t.Fatalf("Collect() returned %d measurements, want 4", len(ms))
	}

	// First measurement spans counter start to first edge.
	if ms[0].PeriodUS != 52 {
		t.Errorf("first period = %d, want 52 (1000 ticks / 19)", ms[0].PeriodUS)
	}
	for i, m := range ms[1:] {
		if m.PeriodUS != 50 {
			t.Errorf("period[%d] = %d, want 50", i+1, m.PeriodUS)
		}
		if m.Status != StatusOK {
			t.Errorf("status[%d] = %q, want ok", i+1, m.Status)
		}
	}
}

func TestRunnerOverflowSpanningEdges(t *testing.T) {
	src := sim.New("sim0", 65536)
	src.Schedule(60000, 65636) // 60000, then wrap + 100

	r := NewRunner(New(testConfig()), src, DefaultLimits(), nil)
	r.WaitTimeout = time.Second

	ms, err := r.Collect(context.Background(), 2)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if ms[1].PeriodUS != 296 {
		t.Errorf("overflow-spanning period = %d, want 296", ms[1].PeriodUS)
	}
	if ms[1].Overflows != 1 {
		t.Errorf("Overflows = %d, want 1", ms[1].Overflows)
	}
}

func TestRunnerTimeout(t *testing.T) {
	src := sim.New("sim0", 65536)

	r := NewRunner(New(testConfig()), src, DefaultLimits(), nil)
	r.WaitTimeout = 5 * time.Millisecond
	r.Wait = WaitSleep

	_, err := r.RunOne(context.Background())
	if !errors.Is(err, ErrNoSignal) {
		t.Fatalf("RunOne() error = %v, want ErrNoSignal", err)
	}
}

func TestRunnerContextCancel(t *testing.T) {
	src := sim.New("sim0", 65536)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(New(testConfig()), src, DefaultLimits(), nil)
	r.Wait = WaitYield

	if err := r.Run(ctx, 1, nil); err != nil {
		t.Errorf("Run() after cancel = %v, want nil", err)
	}
}

func TestRunnerReportCallback(t *testing.T) {
	src := sim.New("sim0", 65536)
	src.Schedule(100, 200, 300)

	r := NewRunner(New(testConfig()), src, DefaultLimits(), nil)
	r.WaitTimeout = time.Second

	var seen []uint32
	err := r.Run(context.Background(), 3, func(m Measurement) {
		seen = append(seen, m.PeriodUS)
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("callback invoked %d times, want 3", len(seen))
	}
}
