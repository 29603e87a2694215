// Package config holds runtime configuration loaded from a JSON file and
// overridden by command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds timing constants, source selection, and loop behavior.
type Config struct {
	// Counter timing
	TickRateMHz uint32 `json:"tick_rate_mhz"`
	PrescaleExp uint32 `json:"prescale_exp"`
	WrapSpan    uint32 `json:"wrap_span"`

	// Operating range
	MinPeriodUS uint32 `json:"min_period_us"`
	MaxPeriodUS uint32 `json:"max_period_us"`

	// Source selection
	Source       string `json:"source"`        // sim, gpio, serial
	GPIOPin      int    `json:"gpio_pin"`
	SerialDevice string `json:"serial_device"`
	SerialBaud   int    `json:"serial_baud"`

	// Polling loop
	WaitTimeoutMS int    `json:"wait_timeout_ms"`
	WaitMode      string `json:"wait_mode"` // spin, yield, sleep

	// Output
	Format string `json:"format"` // table, json, tsv
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		TickRateMHz:   19,
		PrescaleExp:   0,
		WrapSpan:      65536,
		MinPeriodUS:   3,
		MaxPeriodUS:   0,
		Source:        "sim",
		GPIOPin:       17,
		SerialDevice:  "/dev/ttyACM0",
		SerialBaud:    115200,
		WaitTimeoutMS: 5000,
		WaitMode:      "sleep",
		Format:        "table",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.TickRateMHz == 0 {
		c.TickRateMHz = 19
	}
	if c.PrescaleExp > 10 {
		return fmt.Errorf("prescale_exp %d out of range (0-10)", c.PrescaleExp)
	}
	if c.WrapSpan == 0 {
		c.WrapSpan = 65536
	}
	switch c.Source {
	case "sim", "gpio", "serial":
	case "":
		c.Source = "sim"
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	switch c.WaitMode {
	case "spin", "yield", "sleep":
	case "":
		c.WaitMode = "sleep"
	default:
		return fmt.Errorf("unknown wait_mode %q", c.WaitMode)
	}
	switch c.Format {
	case "table", "json", "tsv":
	case "":
		c.Format = "table"
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.SerialBaud <= 0 {
		c.SerialBaud = 115200
	}
	if c.WaitTimeoutMS < 0 {
		c.WaitTimeoutMS = 0
	}
	return nil
}

// WaitTimeout returns the poll timeout as a duration. Zero means wait forever.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutMS) * time.Millisecond
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig(). On JSON or validation error
// it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
