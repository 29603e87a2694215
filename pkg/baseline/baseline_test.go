package baseline

import (
	"testing"

	"github.com/ghQQ/capmeter/pkg/period"
)

func okMeasurement(source string, p uint32) period.Measurement {
	return period.Measurement{Source: source, PeriodUS: p, Status: period.StatusOK}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := period.DefaultConfig()
	ms := []period.Measurement{okMeasurement("sim0", 50), okMeasurement("sim0", 52)}

	b := NewBaseline("bench-rig", cfg, ms)
	if err := b.Save(dir); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load("bench-rig", dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Name != "bench-rig" {
		t.Errorf("Name = %q, want bench-rig", loaded.Name)
	}
	if loaded.MeanPeriodUS != 51 {
		t.Errorf("MeanPeriodUS = %f, want 51", loaded.MeanPeriodUS)
	}
	if loaded.Config.TickRateMHz != 19 {
		t.Errorf("Config.TickRateMHz = %d, want 19", loaded.Config.TickRateMHz)
	}

	names, err := List(dir)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 1 || names[0] != "bench-rig" {
		t.Errorf("List() = %v, want [bench-rig]", names)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("nope", t.TempDir()); err == nil {
		t.Error("Load() of missing baseline succeeded")
	}
}

func TestListEmptyDirIsNotAnError(t *testing.T) {
	names, err := List("/nonexistent/capmeter-baselines")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if names != nil {
		t.Errorf("List() = %v, want nil", names)
	}
}

func TestMeanPeriodSkipsZeroAndUnknown(t *testing.T) {
	ms := []period.Measurement{
		okMeasurement("sim0", 50),
		okMeasurement("sim0", 0), // duplicate edge read
		{Source: "sim0", PeriodUS: 999, Status: period.StatusUnknown},
		okMeasurement("sim0", 60),
	}
	if got := MeanPeriod(ms); got != 55 {
		t.Errorf("MeanPeriod() = %f, want 55", got)
	}
}

func TestCompareDriftClassification(t *testing.T) {
	b := &Baseline{Name: "cal", MeanPeriodUS: 100}

	tests := []struct {
		name    string
		current uint32
		want    Severity
	}{
		{"no drift", 100, SeverityNone},
		{"minor drift", 102, SeverityMinor},
		{"moderate drift", 110, SeverityModerate},
		{"major drift", 130, SeverityMajor},
		{"major drift down", 70, SeverityMajor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := Compare(b, []period.Measurement{okMeasurement("sim0", tt.current)})
			if len(cs) != 1 {
				t.Fatalf("Compare() returned %d comparisons, want 1", len(cs))
			}
			if cs[0].Severity != tt.want {
				t.Errorf("Severity = %q (delta %.1f%%), want %q", cs[0].Severity, cs[0].DeltaPct, tt.want)
			}
		})
	}
}

func TestCompareDriftHz(t *testing.T) {
	b := &Baseline{Name: "cal", MeanPeriodUS: 100} // 10 kHz
	cs := Compare(b, []period.Measurement{okMeasurement("sim0", 50)}) // 20 kHz

	if got := cs[0].DriftHz; got < 9999 || got > 10001 {
		t.Errorf("DriftHz = %f, want ~10000", got)
	}
}
