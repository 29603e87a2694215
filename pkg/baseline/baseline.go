// Package baseline provides saved period baselines and drift detection,
// for calibrating against a known-good signal and spotting frequency drift
// later.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ghQQ/capmeter/pkg/period"
)

// Baseline represents a snapshot of a signal's measured behavior.
type Baseline struct {
	Name         string               `json:"name"`
	Timestamp    time.Time            `json:"timestamp"`
	Hostname     string               `json:"hostname"`
	Config       period.Config        `json:"config"`
	Measurements []period.Measurement `json:"measurements"`
	MeanPeriodUS float64              `json:"mean_period_us"`
	Metadata     map[string]string    `json:"metadata,omitempty"`
}

// DefaultDir returns the default baseline storage directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".capmeter/baselines"
	}
	return filepath.Join(home, ".capmeter", "baselines")
}

// Save writes a baseline to a JSON file.
func (b *Baseline) Save(dir string) error {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create baseline directory: %w", err)
	}

	path := filepath.Join(dir, b.Name+".json")
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write baseline: %w", err)
	}
	return nil
}

// Load reads a baseline from a JSON file.
func Load(name, dir string) (*Baseline, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read baseline %q: %w", name, err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("cannot parse baseline: %w", err)
	}
	return &b, nil
}

// List returns all saved baseline names.
func List(dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name()[:len(e.Name())-5])
		}
	}
	return names, nil
}

// NewBaseline creates a new baseline from a run of measurements.
func NewBaseline(name string, cfg period.Config, ms []period.Measurement) *Baseline {
	hostname, _ := os.Hostname()
	return &Baseline{
		Name:         name,
		Timestamp:    time.Now(),
		Hostname:     hostname,
		Config:       cfg,
		Measurements: ms,
		MeanPeriodUS: MeanPeriod(ms),
	}
}

// MeanPeriod returns the mean period over non-zero OK measurements.
// Zero-length readings from duplicate edges are excluded.
func MeanPeriod(ms []period.Measurement) float64 {
	var sum float64
	n := 0
	for _, m := range ms {
		if m.Status == period.StatusUnknown || m.PeriodUS == 0 {
			continue
		}
		sum += float64(m.PeriodUS)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
