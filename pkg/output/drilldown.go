package output

import (
	"strings"

	"github.com/ghQQ/capmeter/pkg/period"
)

// Suggestion represents a diagnostic next-step for a questionable reading.
type Suggestion struct {
	Command string
	Reason  string
}

// DrillDown returns diagnostic suggestions for a suspect measurement.
func DrillDown(m period.Measurement) []Suggestion {
	if m.Status != period.StatusSuspect && m.Status != period.StatusUnknown {
		return nil
	}

	var suggestions []Suggestion

	switch {
	case m.Status == period.StatusUnknown:
		suggestions = append(suggestions,
			Suggestion{"capmeter measure --timeout 10000", "Retry with a longer poll timeout"},
			Suggestion{"capmeter bench", "Check source acquisition latency"},
		)

	case strings.Contains(m.Description, "ceiling"):
		suggestions = append(suggestions,
			Suggestion{"capmeter measure --prescale 1", "Raise the prescale to slow the counter"},
			Suggestion{"capmeter profile", "Characterize the input signal"},
		)

	default:
		suggestions = append(suggestions,
			Suggestion{"capmeter profile", "Characterize the input signal"},
			Suggestion{"capmeter histogram -o periods.svg", "Inspect the period distribution"},
		)
	}

	return suggestions
}

// GetDrillDownSuggestions returns all suggestions for measurements with
// issues, keyed by source.
func GetDrillDownSuggestions(ms []period.Measurement) map[string][]Suggestion {
	results := make(map[string][]Suggestion)
	for _, m := range ms {
		if m.Status == period.StatusOK {
			continue
		}
		if _, seen := results[m.Source]; seen {
			continue
		}
		suggestions := DrillDown(m)
		if len(suggestions) > 0 {
			results[m.Source] = suggestions
		}
	}
	return results
}
