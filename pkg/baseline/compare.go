package baseline

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghQQ/capmeter/pkg/period"
)

// Severity indicates the magnitude of a signal drift.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
)

// Comparison holds the drift analysis against a saved baseline.
type Comparison struct {
	Source         string
	BaselinePeriod float64
	CurrentPeriod  float64
	DeltaPct       float64
	DriftHz        float64
	Severity       Severity
}

var (
	blTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	blHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	blDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	blOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	blWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	blErr    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	blMinor  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Compare calculates the drift of the current run's mean period against a
// baseline, per source.
func Compare(b *Baseline, current []period.Measurement) []Comparison {
	// Group the current run by source.
	bySource := make(map[string][]period.Measurement)
	var order []string
	for _, m := range current {
		if _, seen := bySource[m.Source]; !seen {
			order = append(order, m.Source)
		}
		bySource[m.Source] = append(bySource[m.Source], m)
	}

	var comparisons []Comparison
	for _, source := range order {
		cur := MeanPeriod(bySource[source])

		var deltaPct float64
		if b.MeanPeriodUS != 0 {
			deltaPct = ((cur - b.MeanPeriodUS) / math.Abs(b.MeanPeriodUS)) * 100
		} else if cur != 0 {
			deltaPct = 100
		}

		var driftHz float64
		if b.MeanPeriodUS > 0 && cur > 0 {
			driftHz = 1e6/cur - 1e6/b.MeanPeriodUS
		}

		comparisons = append(comparisons, Comparison{
			Source:         source,
			BaselinePeriod: b.MeanPeriodUS,
			CurrentPeriod:  cur,
			DeltaPct:       deltaPct,
			DriftHz:        driftHz,
			Severity:       classifySeverity(deltaPct),
		})
	}

	return comparisons
}

func classifySeverity(deltaPct float64) Severity {
	absDelta := math.Abs(deltaPct)
	if absDelta < 1 {
		return SeverityNone
	}
	if absDelta < 5 {
		return SeverityMinor
	}
	if absDelta < 15 {
		return SeverityModerate
	}
	return SeverityMajor
}

// RenderComparison outputs a styled drift comparison table.
func RenderComparison(w io.Writer, b *Baseline, comparisons []Comparison) {
	fmt.Fprintln(w, blTitle.Render("Baseline Comparison"))
	fmt.Fprintln(w, blDim.Render(strings.Repeat("═", 90)))
	fmt.Fprintf(w, "Comparing against %s (from %s)\n\n",
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%q", b.Name)),
		blDim.Render(b.Timestamp.Format("2006-01-02 15:04:05")))

	fmt.Fprintf(w, "  %s %s %s %s %s %s\n",
		blHeader.Render("SOURCE          "),
		blHeader.Render("BASELINE US "),
		blHeader.Render("CURRENT US  "),
		blHeader.Render("DELTA    "),
		blHeader.Render("DRIFT HZ  "),
		blHeader.Render("SEVERITY  "))
	fmt.Fprintln(w, "  "+blDim.Render(strings.Repeat("─", 90)))

	drifted := 0
	for _, c := range comparisons {
		deltaStr := fmt.Sprintf("%+.1f%%", c.DeltaPct)
		var sevStr string
		switch c.Severity {
		case SeverityMajor:
			sevStr = blErr.Render("MAJOR")
			drifted++
		case SeverityModerate:
			sevStr = blWarn.Render("moderate")
			drifted++
		case SeverityMinor:
			sevStr = blMinor.Render("minor")
		default:
			sevStr = blOK.Render("none")
		}

		fmt.Fprintf(w, "  %-17s %-12.2f %-12.2f %-10s %-10.2f %s\n",
			c.Source, c.BaselinePeriod, c.CurrentPeriod, deltaStr, c.DriftHz, sevStr)
	}

	fmt.Fprintln(w)
	if drifted > 0 {
		fmt.Fprintf(w, "  %s\n", blErr.Render(fmt.Sprintf("%d source(s) drifted from baseline.", drifted)))
	} else {
		fmt.Fprintf(w, "  %s\n", blOK.Render("No significant drift detected."))
	}
}
