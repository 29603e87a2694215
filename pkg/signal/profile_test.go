package signal

import (
	"strings"
	"testing"

	"github.com/ghQQ/capmeter/pkg/period"
)

func ok(source string, p uint32) period.Measurement {
	return period.Measurement{Source: source, PeriodUS: p, Status: period.StatusOK}
}

func TestProfileStats(t *testing.T) {
	ms := []period.Measurement{
		ok("sim0", 50), ok("sim0", 50), ok("sim0", 50), ok("sim0", 50),
	}

	r := Profile(ms)
	if len(r.Profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(r.Profiles))
	}
	p := r.Profiles[0]
	if p.Samples != 4 {
		t.Errorf("Samples = %d, want 4", p.Samples)
	}
	if p.MinPeriodUS != 50 || p.MaxPeriodUS != 50 {
		t.Errorf("min/max = %d/%d, want 50/50", p.MinPeriodUS, p.MaxPeriodUS)
	}
	if p.MeanPeriod != 50 {
		t.Errorf("MeanPeriod = %f, want 50", p.MeanPeriod)
	}
	if p.JitterUS != 0 || p.JitterPct != 0 {
		t.Errorf("jitter = %f us (%f%%), want 0", p.JitterUS, p.JitterPct)
	}
	if p.FrequencyHz != 20000 {
		t.Errorf("FrequencyHz = %f, want 20000", p.FrequencyHz)
	}
}

func TestProfileSkipsUnusable(t *testing.T) {
	ms := []period.Measurement{
		ok("sim0", 50),
		ok("sim0", 0), // duplicate edge read
		{Source: "sim0", PeriodUS: 999, Status: period.StatusUnknown},
	}

	r := Profile(ms)
	if r.Profiles[0].Samples != 1 {
		t.Errorf("Samples = %d, want 1", r.Profiles[0].Samples)
	}
	if r.StatusCounts["ok"] != 2 || r.StatusCounts["unknown"] != 1 {
		t.Errorf("StatusCounts = %v", r.StatusCounts)
	}
}

func TestProfileGroupsBySources(t *testing.T) {
	ms := []period.Measurement{
		ok("gpio17", 100), ok("sim0", 50), ok("gpio17", 100),
	}

	r := Profile(ms)
	if len(r.Profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(r.Profiles))
	}
	// Sorted by source name.
	if r.Profiles[0].Source != "gpio17" || r.Profiles[1].Source != "sim0" {
		t.Errorf("sources = %s, %s", r.Profiles[0].Source, r.Profiles[1].Source)
	}
}

func TestPeriodTrend(t *testing.T) {
	tests := []struct {
		name    string
		periods []float64
		want    string
	}{
		{"stable", []float64{50, 50, 51, 50, 49, 50}, "stable"},
		{"slowing", []float64{50, 50, 52, 55, 60, 65}, "slowing"},
		{"speeding up", []float64{65, 60, 55, 52, 50, 50}, "speeding up"},
		{"too few samples", []float64{50, 100}, "stable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := characterizePeriodTrend(tt.periods); got != tt.want {
				t.Errorf("characterizePeriodTrend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderContainsSummary(t *testing.T) {
	ms := []period.Measurement{ok("sim0", 50), ok("sim0", 52)}
	r := Profile(ms)

	var sb strings.Builder
	r.Render(&sb)
	out := sb.String()

	if !strings.Contains(out, "sim0") {
		t.Errorf("render output missing source name:\n%s", out)
	}
	if !strings.Contains(out, "Signal Profile Report") {
		t.Error("render output missing title")
	}
}
