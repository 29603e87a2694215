package crosscheck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ghQQ/capmeter/pkg/period"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	validStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	suspectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	passStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Report outputs cross-check validation results and sanity checks as a styled table.
func Report(w io.Writer, validations []ValidationResult, sanity []SanityResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Cross-Check Validation Report"))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("═", 60)))

	if len(validations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Signal Cross-Checks"))
		fmt.Fprintf(w, "  %-20s %-12s %-12s %-10s %s\n",
			headerStyle.Render("SIGNAL"), headerStyle.Render("CONSENSUS"),
			headerStyle.Render("MAX DEV"), headerStyle.Render("STATUS"),
			headerStyle.Render("READINGS"))
		fmt.Fprintln(w, "  "+dimStyle.Render(strings.Repeat("─", 80)))

		for _, v := range validations {
			readingStrs := make([]string, len(v.Readings))
			for i, r := range v.Readings {
				readingStrs[i] = fmt.Sprintf("%s=%.1fus", r.Source, r.PeriodUS)
			}
			var statusStr string
			switch v.Status {
			case StatusConflict:
				statusStr = conflictStyle.Render("CONFLICT")
			case StatusSuspect:
				statusStr = suspectStyle.Render("SUSPECT")
			default:
				statusStr = validStyle.Render("VALID")
			}
			fmt.Fprintf(w, "  %-20s %-12.1f %-11.1f%% %-10s %s\n",
				v.Signal, v.Consensus, v.MaxDeviation, statusStr,
				dimStyle.Render(strings.Join(readingStrs, ", ")))
		}
	}

	if len(sanity) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Sanity Checks"))
		failed := 0
		for _, s := range sanity {
			var icon string
			if s.Passed {
				icon = passStyle.Render("PASS")
			} else {
				icon = failStyle.Render("FAIL")
				failed++
			}
			fmt.Fprintf(w, "  [%s] %-40s %s\n", icon, s.Check, dimStyle.Render(s.Details))
		}
		fmt.Fprintln(w)
		if failed == 0 {
			fmt.Fprintf(w, "  %s\n", passStyle.Render(fmt.Sprintf("All %d sanity checks passed.", len(sanity))))
		} else {
			fmt.Fprintf(w, "  %s\n", failStyle.Render(fmt.Sprintf("%d of %d sanity checks failed.", failed, len(sanity))))
		}
	}
}

// ReportJSON outputs cross-check results as JSON.
func ReportJSON(w io.Writer, validations []ValidationResult, sanity []SanityResult) error {
	output := struct {
		Validations []ValidationResult `json:"validations"`
		Sanity      []SanityResult     `json:"sanity"`
	}{
		Validations: validations,
		Sanity:      sanity,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// RunCrossChecks cross-validates a measurement run: sources observing the
// same signal are compared for consensus, and every measurement is checked
// against physical constraints.
func RunCrossChecks(cfg period.Config, limits period.Limits, signal string, ms []period.Measurement) ([]ValidationResult, []SanityResult) {
	validator := NewValidator()

	// One reading per source: the mean period over its measurements.
	bySource := make(map[string][]float64)
	var order []string
	for _, m := range ms {
		if m.Status == period.StatusUnknown || m.PeriodUS == 0 {
			continue
		}
		if _, seen := bySource[m.Source]; !seen {
			order = append(order, m.Source)
		}
		bySource[m.Source] = append(bySource[m.Source], float64(m.PeriodUS))
	}

	readings := make([]Reading, 0, len(order))
	for _, source := range order {
		vals := bySource[source]
		var sum float64
		for _, v := range vals {
			sum += v
		}
		readings = append(readings, Reading{Source: source, PeriodUS: sum / float64(len(vals))})
	}

	var validations []ValidationResult
	if len(readings) > 0 {
		validations = append(validations, validator.CrossCheck(signal, readings))
	}

	sanity := RunSanityChecks(cfg, limits, ms)

	return validations, sanity
}
