package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ghQQ/capmeter/pkg/capture/sim"
)

func TestTimedSourceCounts(t *testing.T) {
	src := sim.New("sim0", 65536)
	src.Schedule(100, 200)

	ts := NewTimedSource(src)

	if !ts.EdgeAvailable() {
		t.Fatal("EdgeAvailable() = false with scheduled edge")
	}
	if !ts.EdgeAvailable() {
		t.Fatal("EdgeAvailable() = false for second edge")
	}
	if ts.EdgeAvailable() {
		t.Error("EdgeAvailable() = true with drained schedule")
	}

	if ts.Timing.Edges != 2 {
		t.Errorf("Edges = %d, want 2", ts.Timing.Edges)
	}
	if ts.Timing.Polls != 3 {
		t.Errorf("Polls = %d, want 3", ts.Timing.Polls)
	}
	if got := ts.ReadTimestamp(); got != 200 {
		t.Errorf("ReadTimestamp() = %d, want 200", got)
	}
}

func TestTraceLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTraceLogger(&buf)

	tr.LogEdge("sim0", 1500, false, 26)

	out := buf.String()
	if !strings.Contains(out, "sim0") || !strings.Contains(out, "edge=1500") || !strings.Contains(out, "period=26us") {
		t.Errorf("unexpected trace line: %q", out)
	}
}
