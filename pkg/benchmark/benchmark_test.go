package benchmark

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ghQQ/capmeter/pkg/capture"
	"github.com/ghQQ/capmeter/pkg/capture/sim"
	"github.com/ghQQ/capmeter/pkg/period"
)

func TestRunPercentilesAndSpread(t *testing.T) {
	cfg := period.DefaultConfig()
	src := sim.New("sim0", cfg.WrapSpan)

	opts := Options{Iterations: 10, Warmup: 2, Timeout: time.Second}

	// One edge per warmup and iteration, 950 ticks apart (50 us at 19 MHz).
	at := uint64(0)
	for i := 0; i < opts.Warmup+opts.Iterations; i++ {
		at += 950
		src.Schedule(at)
	}

	results := Run(context.Background(), cfg, []capture.Source{src}, opts)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Source != "sim0" {
		t.Errorf("Source = %q, want sim0", r.Source)
	}
	if r.Errors != 0 {
		t.Errorf("Errors = %d, want 0", r.Errors)
	}
	if len(r.Latencies) != opts.Iterations {
		t.Errorf("got %d latencies, want %d", len(r.Latencies), opts.Iterations)
	}
	if r.P50 > r.P95 || r.P95 > r.P99 {
		t.Errorf("percentiles not ordered: P50=%v P95=%v P99=%v", r.P50, r.P95, r.P99)
	}
	if r.PeriodStdUS != 0 {
		t.Errorf("PeriodStdUS = %f for a steady signal, want 0", r.PeriodStdUS)
	}
}

func TestRunCountsTimeouts(t *testing.T) {
	cfg := period.DefaultConfig()
	src := sim.New("sim0", cfg.WrapSpan) // no edges scheduled

	opts := Options{Iterations: 3, Warmup: 0, Timeout: time.Millisecond}
	results := Run(context.Background(), cfg, []capture.Source{src}, opts)

	if results[0].Errors != 3 {
		t.Errorf("Errors = %d, want 3", results[0].Errors)
	}
	if len(results[0].Latencies) != 0 {
		t.Errorf("got %d latencies, want 0", len(results[0].Latencies))
	}
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0.50, 5},
		{0.95, 10},
		{0.99, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%.2f) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %v, want 0", got)
	}
}

func TestStddev(t *testing.T) {
	if got := stddev([]float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("stddev of constants = %f, want 0", got)
	}
	got := stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if got < 1.99 || got > 2.01 {
		t.Errorf("stddev = %f, want 2", got)
	}
	if got := stddev([]float64{42}); got != 0 {
		t.Errorf("stddev of single value = %f, want 0", got)
	}
}

func TestMeasureOverheadNonZero(t *testing.T) {
	o := MeasureOverhead()
	if o.AllocBytes == 0 || o.AllocCount == 0 {
		t.Errorf("overhead all zero: %+v", o)
	}
}

func TestRenderResults(t *testing.T) {
	results := []Result{{
		Source: "sim0",
		P50:    time.Microsecond, P95: 2 * time.Microsecond, P99: 3 * time.Microsecond,
		PeriodStdUS: 0.5,
	}}

	var sb strings.Builder
	RenderResults(&sb, results, MeasureOverhead())
	out := sb.String()

	if !strings.Contains(out, "sim0") || !strings.Contains(out, "Tool Overhead") {
		t.Errorf("render output incomplete:\n%s", out)
	}
}
