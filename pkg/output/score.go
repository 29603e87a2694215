package output

import (
	"math"

	"github.com/ghQQ/capmeter/pkg/period"
)

// StabilityScore computes a 0-100 signal stability score from a run of
// measurements. Starts at 100, subtracts for period jitter relative to the
// mean (up to -60), -5 per suspect reading, -3 per unknown.
func StabilityScore(ms []period.Measurement) int {
	score := 100

	var sum, sumSq float64
	n := 0
	for _, m := range ms {
		switch m.Status {
		case period.StatusSuspect:
			score -= 5
		case period.StatusUnknown:
			score -= 3
			continue
		}
		v := float64(m.PeriodUS)
		sum += v
		sumSq += v * v
		n++
	}

	if n >= 2 && sum > 0 {
		mean := sum / float64(n)
		variance := (sumSq / float64(n)) - (mean * mean)
		if variance < 0 {
			variance = 0
		}
		// Coefficient of variation, saturating at 60 points.
		cv := math.Sqrt(variance) / mean
		penalty := int(cv * 200)
		if penalty > 60 {
			penalty = 60
		}
		score -= penalty
	}

	if score < 0 {
		score = 0
	}
	return score
}

// ScoreLabel returns a human-readable label for a stability score.
func ScoreLabel(score int) string {
	if score >= 80 {
		return "Stable"
	}
	if score >= 50 {
		return "Jittery"
	}
	return "Unstable"
}
