// Package output provides formatters for displaying period measurements.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ghQQ/capmeter/pkg/period"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
)

// Formatter handles output formatting.
type Formatter struct {
	format    Format
	writer    io.Writer
	sparkline *SparklineTracker
	showScore bool
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// SetSparklineTracker enables period trend tracking for watch mode.
func (f *Formatter) SetSparklineTracker(s *SparklineTracker) {
	f.sparkline = s
}

// SetShowScore enables stability score display.
func (f *Formatter) SetShowScore(show bool) {
	f.showScore = show
}

// Render outputs the measurements in the configured format.
func (f *Formatter) Render(ms []period.Measurement) error {
	if f.sparkline != nil {
		for _, m := range ms {
			f.sparkline.Record(m.Source, float64(m.PeriodUS))
		}
	}

	switch f.format {
	case FormatJSON:
		return f.renderJSON(ms)
	case FormatTSV:
		return f.renderTSV(ms)
	default:
		return f.renderTable(ms)
	}
}

// renderJSON outputs measurements as JSON.
func (f *Formatter) renderJSON(ms []period.Measurement) error {
	output := struct {
		Measurements []period.Measurement `json:"measurements"`
		Summary      period.Summary       `json:"summary"`
	}{
		Measurements: ms,
		Summary:      period.Summarize(ms),
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// renderTable outputs measurements as a styled table.
func (f *Formatter) renderTable(ms []period.Measurement) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	statusStyles := map[period.Status]lipgloss.Style{
		period.StatusOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Green
		period.StatusSuspect: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Yellow
		period.StatusUnknown: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),  // Gray
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Fprintln(f.writer, titleStyle.Render("Period Measurements"))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintln(f.writer)

	hasSparklines := f.sparkline != nil
	rows := make([][]string, len(ms))
	for i, m := range ms {
		statusStyle := statusStyles[m.Status]
		row := []string{
			m.Source,
			fmt.Sprintf("%d us", m.PeriodUS),
			formatFrequency(m.FrequencyHz),
			fmt.Sprintf("%d", m.Overflows),
			statusStyle.Render(strings.ToUpper(string(m.Status))),
		}
		if hasSparklines {
			row = append(row, f.sparkline.Sparkline(m.Source))
		}
		rows[i] = row
	}

	headers := []string{"SOURCE", "PERIOD", "FREQUENCY", "OVERFLOWS", "STATUS"}
	if hasSparklines {
		headers = append(headers, "TREND")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(f.writer, t)

	summary := period.Summarize(ms)
	fmt.Fprintln(f.writer)
	f.renderSummary(summary, statusStyles)

	if f.showScore {
		score := StabilityScore(ms)
		label := ScoreLabel(score)
		scoreStyle := statusStyles[period.StatusOK]
		if score < 80 {
			scoreStyle = statusStyles[period.StatusSuspect]
		}
		if score < 50 {
			scoreStyle = statusStyles[period.StatusUnknown]
		}
		fmt.Fprintf(f.writer, "Stability Score: %s\n",
			scoreStyle.Render(fmt.Sprintf("%d/100 (%s)", score, label)))
	}

	return nil
}

// renderSummary outputs the summary line.
func (f *Formatter) renderSummary(summary period.Summary, styles map[period.Status]lipgloss.Style) {
	parts := []string{}

	if summary.Suspect > 0 {
		parts = append(parts, styles[period.StatusSuspect].Render(fmt.Sprintf("%d suspect", summary.Suspect)))
	}
	if summary.Unknown > 0 {
		parts = append(parts, styles[period.StatusUnknown].Render(fmt.Sprintf("%d unknown", summary.Unknown)))
	}

	if len(parts) == 0 {
		fmt.Fprintln(f.writer, styles[period.StatusOK].Render(fmt.Sprintf("%d measurements, all in range", summary.Total)))
	} else {
		fmt.Fprintf(f.writer, "Summary: %d measurements, %s\n", summary.Total, strings.Join(parts, ", "))
	}
}

// renderTSV outputs measurements as tab-separated values.
func (f *Formatter) renderTSV(ms []period.Measurement) error {
	fmt.Fprintln(f.writer, "SOURCE\tPERIOD_US\tELAPSED_TICKS\tOVERFLOWS\tFREQUENCY_HZ\tSTATUS\tDESCRIPTION")

	for _, m := range ms {
		fmt.Fprintf(f.writer, "%s\t%d\t%d\t%d\t%.2f\t%s\t%s\n",
			m.Source, m.PeriodUS, m.ElapsedTick, m.Overflows,
			m.FrequencyHz, m.Status, m.Description)
	}

	return nil
}

// formatFrequency renders a frequency with an adaptive unit.
func formatFrequency(hz float64) string {
	switch {
	case hz == 0:
		return "-"
	case hz >= 1e6:
		return fmt.Sprintf("%.3f MHz", hz/1e6)
	case hz >= 1e3:
		return fmt.Sprintf("%.3f kHz", hz/1e3)
	default:
		return fmt.Sprintf("%.1f Hz", hz)
	}
}
