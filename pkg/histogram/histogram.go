// Package histogram bins period measurements and renders the distribution.
package histogram

import (
	"fmt"
	"sort"

	"github.com/ghQQ/capmeter/pkg/period"
)

// Bin is one interval of the period distribution.
type Bin struct {
	LowUS  uint32 `json:"low_us"`
	HighUS uint32 `json:"high_us"` // exclusive, except the last bin
	Count  int    `json:"count"`
}

// Histogram holds the binned period distribution for one run.
type Histogram struct {
	Source  string `json:"source"`
	Bins    []Bin  `json:"bins"`
	Total   int    `json:"total"`
	MinUS   uint32 `json:"min_us"`
	MaxUS   uint32 `json:"max_us"`
	WidthUS uint32 `json:"width_us"`
}

// Build bins the usable periods of a run into binCount equal-width bins.
// Unknown-status and zero-period measurements are skipped; a binCount
// below 1 falls back to 10.
func Build(source string, ms []period.Measurement, binCount int) *Histogram {
	if binCount < 1 {
		binCount = 10
	}

	var periods []uint32
	for _, m := range ms {
		if m.Status == period.StatusUnknown || m.PeriodUS == 0 {
			continue
		}
		periods = append(periods, m.PeriodUS)
	}

	h := &Histogram{Source: source, Total: len(periods)}
	if len(periods) == 0 {
		return h
	}

	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	h.MinUS = periods[0]
	h.MaxUS = periods[len(periods)-1]

	span := h.MaxUS - h.MinUS + 1
	h.WidthUS = span / uint32(binCount)
	if h.WidthUS == 0 {
		h.WidthUS = 1
	}
	bins := int((span + h.WidthUS - 1) / h.WidthUS)

	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		low := h.MinUS + uint32(i)*h.WidthUS
		h.Bins[i] = Bin{LowUS: low, HighUS: low + h.WidthUS}
	}
	for _, p := range periods {
		idx := int((p - h.MinUS) / h.WidthUS)
		if idx >= len(h.Bins) {
			idx = len(h.Bins) - 1
		}
		h.Bins[idx].Count++
	}
	return h
}

// Peak returns the bin with the highest count.
func (h *Histogram) Peak() Bin {
	var peak Bin
	for _, b := range h.Bins {
		if b.Count > peak.Count {
			peak = b
		}
	}
	return peak
}

// Label formats a bin interval for display.
func (b Bin) Label() string {
	if b.HighUS == b.LowUS+1 {
		return fmt.Sprintf("%d us", b.LowUS)
	}
	return fmt.Sprintf("%d-%d us", b.LowUS, b.HighUS-1)
}
