package output

import (
	"strings"
	"sync"
)

// SparklineTracker keeps a rolling window of period values per source for
// sparkline rendering in watch mode.
type SparklineTracker struct {
	mu     sync.Mutex
	data   map[string][]float64
	maxLen int
}

// NewSparklineTracker creates a tracker with a fixed window size.
func NewSparklineTracker(maxLen int) *SparklineTracker {
	if maxLen < 1 {
		maxLen = 20
	}
	return &SparklineTracker{
		data:   make(map[string][]float64),
		maxLen: maxLen,
	}
}

// Record adds a new period value for a source.
func (s *SparklineTracker) Record(source string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[source] = append(s.data[source], value)
	if len(s.data[source]) > s.maxLen {
		s.data[source] = s.data[source][len(s.data[source])-s.maxLen:]
	}
}

// Values returns a copy of the recorded window for a source.
func (s *SparklineTracker) Values(source string) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.data[source]
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// Sparkline returns a Unicode sparkline string for a source.
func (s *SparklineTracker) Sparkline(source string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.data[source]
	if !ok || len(values) == 0 {
		return ""
	}

	return renderSparkline(values)
}

// sparkline block characters from lowest to highest
var sparkBlocks = []rune{
	'\u2581', // ▁
	'\u2582', // ▂
	'\u2583', // ▃
	'\u2584', // ▄
	'\u2585', // ▅
	'\u2586', // ▆
	'\u2587', // ▇
	'\u2588', // █
}

func renderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	rng := max - min
	for _, v := range values {
		idx := 0
		if rng > 0 {
			idx = int((v - min) / rng * float64(len(sparkBlocks)-1))
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkBlocks[idx])
	}

	return b.String()
}
