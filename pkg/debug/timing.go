package debug

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghQQ/capmeter/pkg/capture"
)

var (
	debugTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	debugHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	debugDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SourceTiming records acquisition latency for one capture source.
type SourceTiming struct {
	Name      string
	Polls     uint64
	Edges     uint64
	TotalWait time.Duration
	LastWait  time.Duration
}

// TimedSource wraps a capture.Source to record how long edges take to
// arrive and how many polls came back empty.
type TimedSource struct {
	inner     capture.Source
	Timing    SourceTiming
	waitStart time.Time
}

// NewTimedSource wraps a source with timing instrumentation.
func NewTimedSource(s capture.Source) *TimedSource {
	return &TimedSource{
		inner:  s,
		Timing: SourceTiming{Name: s.Name()},
	}
}

// Name returns the wrapped source's name.
func (t *TimedSource) Name() string { return t.inner.Name() }

// EdgeAvailable polls the wrapped source, accumulating wait time between
// consecutive edges.
func (t *TimedSource) EdgeAvailable() bool {
	if t.waitStart.IsZero() {
		t.waitStart = time.Now()
	}
	t.Timing.Polls++

	if !t.inner.EdgeAvailable() {
		return false
	}

	t.Timing.Edges++
	t.Timing.LastWait = time.Since(t.waitStart)
	t.Timing.TotalWait += t.Timing.LastWait
	t.waitStart = time.Time{}
	return true
}

// ReadTimestamp returns the wrapped source's latched capture value.
func (t *TimedSource) ReadTimestamp() uint32 { return t.inner.ReadTimestamp() }

// Overflowed reports the wrapped source's overflow flag.
func (t *TimedSource) Overflowed() bool { return t.inner.Overflowed() }

// ClearOverflow clears the wrapped source's overflow flag.
func (t *TimedSource) ClearOverflow() { t.inner.ClearOverflow() }

// AvgWait returns the mean edge arrival latency.
func (s SourceTiming) AvgWait() time.Duration {
	if s.Edges == 0 {
		return 0
	}
	return s.TotalWait / time.Duration(s.Edges)
}

// TimingReport prints a styled acquisition timing summary.
func TimingReport(w io.Writer, timings []SourceTiming) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Source Timing Report"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 60)))
	fmt.Fprintf(w, "  %s  %s  %s  %s\n",
		debugHeader.Render("SOURCE         "),
		debugHeader.Render("EDGES   "),
		debugHeader.Render("POLLS     "),
		debugHeader.Render("AVG WAIT    "))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 60)))

	for _, t := range timings {
		fmt.Fprintf(w, "  %-16s %-9d %-11d %v\n", t.Name, t.Edges, t.Polls, t.AvgWait())
	}
}
