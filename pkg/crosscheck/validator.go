// Package crosscheck provides cross-validation of period measurements from
// multiple capture paths observing the same signal.
package crosscheck

import (
	"math"
	"sort"
)

// ValidationStatus indicates the confidence level of a cross-checked value.
type ValidationStatus string

const (
	StatusValid    ValidationStatus = "valid"
	StatusSuspect  ValidationStatus = "suspect"
	StatusConflict ValidationStatus = "conflict"
)

// Reading represents one source's view of the signal's period.
type Reading struct {
	Source   string  `json:"source"`
	PeriodUS float64 `json:"period_us"`
}

// ValidationResult holds the cross-check outcome for a signal.
type ValidationResult struct {
	Signal       string           `json:"signal"`
	Readings     []Reading        `json:"readings"`
	Consensus    float64          `json:"consensus"`
	MaxDeviation float64          `json:"max_deviation"`
	Status       ValidationStatus `json:"status"`
}

// Validator cross-checks the same signal measured through several sources.
type Validator struct {
	SuspectThreshold  float64 // deviation % above which readings are suspect (default 2%)
	ConflictThreshold float64 // deviation % above which readings conflict (default 10%)
}

// NewValidator creates a validator with default thresholds. Periods from
// independent capture paths of one signal should agree within integer
// truncation, so the defaults are tighter than generic metric comparison.
func NewValidator() *Validator {
	return &Validator{
		SuspectThreshold:  2.0,
		ConflictThreshold: 10.0,
	}
}

// CrossCheck validates a signal by comparing period readings from multiple
// sources. Returns a ValidationResult with consensus (median) and deviation
// analysis.
func (v *Validator) CrossCheck(signal string, readings []Reading) ValidationResult {
	result := ValidationResult{
		Signal:   signal,
		Readings: readings,
		Status:   StatusValid,
	}

	if len(readings) == 0 {
		return result
	}

	if len(readings) == 1 {
		result.Consensus = readings[0].PeriodUS
		return result
	}

	// Calculate consensus via median
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.PeriodUS
	}
	sort.Float64s(values)

	if len(values)%2 == 0 {
		result.Consensus = (values[len(values)/2-1] + values[len(values)/2]) / 2
	} else {
		result.Consensus = values[len(values)/2]
	}

	// Calculate max deviation from consensus
	for _, val := range values {
		if result.Consensus == 0 {
			if val != 0 {
				result.MaxDeviation = 100.0
			}
			continue
		}
		dev := math.Abs(val-result.Consensus) / result.Consensus * 100
		if dev > result.MaxDeviation {
			result.MaxDeviation = dev
		}
	}

	// Thresholds are exclusive: a deviation sitting exactly on the band
	// edge is integer-truncation noise, not disagreement.
	if result.MaxDeviation > v.ConflictThreshold {
		result.Status = StatusConflict
	} else if result.MaxDeviation > v.SuspectThreshold {
		result.Status = StatusSuspect
	}

	return result
}
