package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ghQQ/capmeter/pkg/period"
)

func sampleMeasurements() []period.Measurement {
	return []period.Measurement{
		{Source: "sim0", PeriodUS: 50, ElapsedTick: 950, FrequencyHz: 20000, Status: period.StatusOK, Description: "period between two captured edges"},
		{Source: "sim0", PeriodUS: 2, ElapsedTick: 38, FrequencyHz: 500000, Status: period.StatusSuspect, Description: "input frequency above measurable ceiling"},
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf)

	if err := f.Render(sampleMeasurements()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded struct {
		Measurements []period.Measurement `json:"measurements"`
		Summary      period.Summary       `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Measurements) != 2 {
		t.Errorf("decoded %d measurements, want 2", len(decoded.Measurements))
	}
	if decoded.Summary.Suspect != 1 {
		t.Errorf("summary suspect = %d, want 1", decoded.Summary.Suspect)
	}
}

func TestRenderTSV(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTSV, &buf)

	if err := f.Render(sampleMeasurements()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("TSV has %d lines, want 3 (header + 2 rows)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "SOURCE\tPERIOD_US") {
		t.Errorf("unexpected TSV header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "sim0\t50\t950") {
		t.Errorf("unexpected TSV row: %q", lines[1])
	}
}

func TestSparklineWindow(t *testing.T) {
	tr := NewSparklineTracker(4)
	for i := 0; i < 10; i++ {
		tr.Record("sim0", float64(i))
	}

	values := tr.Values("sim0")
	if len(values) != 4 {
		t.Fatalf("window holds %d values, want 4", len(values))
	}
	if values[0] != 6 || values[3] != 9 {
		t.Errorf("window = %v, want [6 7 8 9]", values)
	}

	spark := tr.Sparkline("sim0")
	if utf8.RuneCountInString(spark) != 4 {
		t.Errorf("sparkline has %d runes, want 4", utf8.RuneCountInString(spark))
	}
}

func TestSparklineFlatSignal(t *testing.T) {
	tr := NewSparklineTracker(8)
	for i := 0; i < 5; i++ {
		tr.Record("sim0", 50)
	}
	spark := tr.Sparkline("sim0")
	for _, r := range spark {
		if r != sparkBlocks[0] {
			t.Errorf("flat signal rendered %q, want all %q", spark, string(sparkBlocks[0]))
			break
		}
	}
}

func TestStabilityScore(t *testing.T) {
	stable := []period.Measurement{
		{PeriodUS: 50, Status: period.StatusOK},
		{PeriodUS: 50, Status: period.StatusOK},
		{PeriodUS: 50, Status: period.StatusOK},
	}
	if got := StabilityScore(stable); got != 100 {
		t.Errorf("StabilityScore(stable) = %d, want 100", got)
	}

	jittery := []period.Measurement{
		{PeriodUS: 10, Status: period.StatusOK},
		{PeriodUS: 90, Status: period.StatusOK},
		{PeriodUS: 10, Status: period.StatusOK},
		{PeriodUS: 90, Status: period.StatusOK},
	}
	if got := StabilityScore(jittery); got >= 80 {
		t.Errorf("StabilityScore(jittery) = %d, want < 80", got)
	}

	if ScoreLabel(90) != "Stable" || ScoreLabel(60) != "Jittery" || ScoreLabel(10) != "Unstable" {
		t.Error("ScoreLabel boundaries wrong")
	}
}

func TestDrillDownOnlyForIssues(t *testing.T) {
	ms := sampleMeasurements()

	if got := DrillDown(ms[0]); got != nil {
		t.Errorf("DrillDown(ok) = %v, want nil", got)
	}
	if got := DrillDown(ms[1]); len(got) == 0 {
		t.Error("DrillDown(suspect) returned no suggestions")
	}

	all := GetDrillDownSuggestions(ms)
	if len(all) != 1 {
		t.Errorf("GetDrillDownSuggestions() covers %d sources, want 1", len(all))
	}
	if _, ok := all["sim0"]; !ok {
		t.Error("missing suggestions for sim0")
	}
}
