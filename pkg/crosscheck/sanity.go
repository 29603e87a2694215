package crosscheck

import (
	"fmt"

	"github.com/ghQQ/capmeter/pkg/period"
)

// SanityResult holds the outcome of a physical constraint check.
type SanityResult struct {
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// RunSanityChecks validates measurements against the physical constraints
// of the counter and the configured operating range.
func RunSanityChecks(cfg period.Config, limits period.Limits, ms []period.Measurement) []SanityResult {
	var results []SanityResult
	divisor := cfg.Divisor()

	for _, m := range ms {
		if m.Status == period.StatusUnknown {
			continue
		}

		// Elapsed ticks and period must agree under floor division.
		name := fmt.Sprintf("%s tick/period consistency", m.Source)
		if m.ElapsedTick/divisor != m.PeriodUS {
			results = append(results, SanityResult{
				Check:   name,
				Passed:  false,
				Details: fmt.Sprintf("%d ticks / %d != %d us", m.ElapsedTick, divisor, m.PeriodUS),
			})
		} else {
			results = append(results, SanityResult{
				Check:   name,
				Passed:  true,
				Details: fmt.Sprintf("%d ticks / %d = %d us", m.ElapsedTick, divisor, m.PeriodUS),
			})
		}

		// Implied frequency must sit below the measurable ceiling.
		if m.FrequencyHz > 0 && limits.MaxFrequencyHz() > 0 {
			name := fmt.Sprintf("%s frequency ceiling", m.Source)
			if m.FrequencyHz > limits.MaxFrequencyHz() {
				results = append(results, SanityResult{
					Check:   name,
					Passed:  false,
					Details: fmt.Sprintf("%.0f Hz exceeds ceiling %.0f Hz", m.FrequencyHz, limits.MaxFrequencyHz()),
				})
			} else {
				results = append(results, SanityResult{
					Check:   name,
					Passed:  true,
					Details: fmt.Sprintf("%.0f Hz within ceiling %.0f Hz", m.FrequencyHz, limits.MaxFrequencyHz()),
				})
			}
		}

		// A measurement reporting overflows must span at least one wrap
		// minus the largest possible in-wrap distance.
		if m.Overflows > 0 {
			name := fmt.Sprintf("%s overflow span", m.Source)
			minTicks := (m.Overflows - 1) * cfg.WrapSpan
			if m.ElapsedTick < minTicks {
				results = append(results, SanityResult{
					Check:   name,
					Passed:  false,
					Details: fmt.Sprintf("%d ticks with %d overflows (min %d)", m.ElapsedTick, m.Overflows, minTicks),
				})
			} else {
				results = append(results, SanityResult{
					Check:   name,
					Passed:  true,
					Details: fmt.Sprintf("%d ticks consistent with %d overflows", m.ElapsedTick, m.Overflows),
				})
			}
		}
	}

	return results
}
