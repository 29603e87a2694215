// Package signal provides signal profiling - answers "what is the input doing?"
package signal

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghQQ/capmeter/pkg/period"
)

// SourceProfile holds the per-source statistics of a measurement run.
type SourceProfile struct {
	Source      string  `json:"source"`
	Samples     int     `json:"samples"`
	MinPeriodUS uint32  `json:"min_period_us"`
	MaxPeriodUS uint32  `json:"max_period_us"`
	MeanPeriod  float64 `json:"mean_period_us"`
	JitterUS    float64 `json:"jitter_us"`
	JitterPct   float64 `json:"jitter_pct"`
	FrequencyHz float64 `json:"frequency_hz"`
	Overflows   uint32  `json:"overflows"`
}

// Report holds the complete signal profile.
type Report struct {
	Profiles     []SourceProfile `json:"profiles"`
	StatusCounts map[string]int  `json:"status_counts"`
	PeriodTrend  string          `json:"period_trend"`
	Summary      string          `json:"summary"`
}

var (
	sigTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sigHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	sigDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sigWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sigOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// Profile characterizes a run of measurements per source.
func Profile(ms []period.Measurement) *Report {
	r := &Report{StatusCounts: make(map[string]int)}

	bySource := make(map[string][]period.Measurement)
	var order []string
	for _, m := range ms {
		r.StatusCounts[string(m.Status)]++
		if _, seen := bySource[m.Source]; !seen {
			order = append(order, m.Source)
		}
		bySource[m.Source] = append(bySource[m.Source], m)
	}
	sort.Strings(order)

	var allPeriods []float64
	for _, source := range order {
		p := profileSource(source, bySource[source])
		if p.Samples == 0 {
			continue
		}
		r.Profiles = append(r.Profiles, p)
		for _, m := range bySource[source] {
			if usable(m) {
				allPeriods = append(allPeriods, float64(m.PeriodUS))
			}
		}
	}

	r.PeriodTrend = characterizePeriodTrend(allPeriods)
	r.Summary = summarize(r)
	return r
}

func usable(m period.Measurement) bool {
	return m.Status != period.StatusUnknown && m.PeriodUS > 0
}

func profileSource(source string, ms []period.Measurement) SourceProfile {
	p := SourceProfile{Source: source}

	var periods []float64
	for _, m := range ms {
		if !usable(m) {
			continue
		}
		if p.Samples == 0 || m.PeriodUS < p.MinPeriodUS {
			p.MinPeriodUS = m.PeriodUS
		}
		if m.PeriodUS > p.MaxPeriodUS {
			p.MaxPeriodUS = m.PeriodUS
		}
		p.Overflows += m.Overflows
		p.Samples++
		periods = append(periods, float64(m.PeriodUS))
	}
	if p.Samples == 0 {
		return p
	}

	var sum, sumSq float64
	for _, v := range periods {
		sum += v
		sumSq += v * v
	}
	n := float64(len(periods))
	p.MeanPeriod = sum / n

	variance := (sumSq / n) - (p.MeanPeriod * p.MeanPeriod)
	if variance < 0 {
		variance = 0
	}
	p.JitterUS = math.Sqrt(variance)
	if p.MeanPeriod > 0 {
		p.JitterPct = p.JitterUS / p.MeanPeriod * 100
		p.FrequencyHz = 1e6 / p.MeanPeriod
	}
	return p
}

// characterizePeriodTrend compares the first and last thirds of the run to
// detect whether the signal is speeding up, slowing down, or stable.
func characterizePeriodTrend(periods []float64) string {
	if len(periods) < 6 {
		return "stable"
	}
	third := len(periods) / 3
	early := mean(periods[:third])
	late := mean(periods[len(periods)-third:])
	if early == 0 {
		return "stable"
	}
	if late > early*1.1 {
		return "slowing"
	}
	if late < early*0.9 {
		return "speeding up"
	}
	return "stable"
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func summarize(r *Report) string {
	if len(r.Profiles) == 0 {
		return "No usable measurements."
	}
	var parts []string
	for _, p := range r.Profiles {
		parts = append(parts, fmt.Sprintf("%s %.1fus (%.0f Hz, jitter %.1f%%)",
			p.Source, p.MeanPeriod, p.FrequencyHz, p.JitterPct))
	}
	s := strings.Join(parts, "; ")
	if r.PeriodTrend != "stable" {
		s += fmt.Sprintf(". Signal is %s over the run.", r.PeriodTrend)
	}
	return s
}

// Render outputs the signal profile with lipgloss styling.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w, sigTitle.Render("Signal Profile Report"))
	fmt.Fprintln(w, sigDim.Render(strings.Repeat("═", 60)))
	fmt.Fprintln(w)

	trendStyle := sigOK
	if r.PeriodTrend != "stable" {
		trendStyle = sigWarn
	}
	fmt.Fprintf(w, "%s  %s\n", sigTitle.Render("Period Trend:"), trendStyle.Render(r.PeriodTrend))
	fmt.Fprintln(w)

	if len(r.StatusCounts) > 0 {
		fmt.Fprintf(w, "%s  ", sigTitle.Render("Measurement Statuses:"))
		keys := make([]string, 0, len(r.StatusCounts))
		for k := range r.StatusCounts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%d", k, r.StatusCounts[k]))
		}
		fmt.Fprintln(w, strings.Join(parts, ", "))
		fmt.Fprintln(w)
	}

	if len(r.Profiles) > 0 {
		fmt.Fprintln(w, sigTitle.Render("Per-Source Statistics"))
		fmt.Fprintf(w, "  %s %s %s %s %s %s\n",
			sigHeader.Render("SOURCE      "),
			sigHeader.Render("SAMPLES"),
			sigHeader.Render("MEAN us  "),
			sigHeader.Render("MIN/MAX us   "),
			sigHeader.Render("JITTER   "),
			sigHeader.Render("FREQ Hz"))
		fmt.Fprintln(w, "  "+sigDim.Render(strings.Repeat("─", 70)))
		for _, p := range r.Profiles {
			fmt.Fprintf(w, "  %-13s %-8d %-10.1f %-14s %-10s %.0f\n",
				p.Source, p.Samples, p.MeanPeriod,
				fmt.Sprintf("%d/%d", p.MinPeriodUS, p.MaxPeriodUS),
				fmt.Sprintf("%.1f%%", p.JitterPct),
				p.FrequencyHz)
		}
		fmt.Fprintln(w)
	}

	if r.Summary != "" {
		fmt.Fprintf(w, "%s %s\n", sigTitle.Render("Summary:"), r.Summary)
	}
}
