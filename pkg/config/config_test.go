package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := DefaultConfig()
	if c.TickRateMHz != 19 || c.WrapSpan != 65536 || c.PrescaleExp != 0 {
		t.Errorf("timing defaults = %d MHz, prescale %d, wrap %d", c.TickRateMHz, c.PrescaleExp, c.WrapSpan)
	}
	if c.MinPeriodUS != 3 {
		t.Errorf("MinPeriodUS = %d, want 3", c.MinPeriodUS)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.TickRateMHz != 19 {
		t.Errorf("TickRateMHz = %d, want default 19", c.TickRateMHz)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capmeter.json")

	c := DefaultConfig()
	c.Source = "gpio"
	c.GPIOPin = 23
	c.WaitTimeoutMS = 250
	if err := c.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Source != "gpio" || loaded.GPIOPin != 23 {
		t.Errorf("source = %q pin %d, want gpio pin 23", loaded.Source, loaded.GPIOPin)
	}
	if loaded.WaitTimeout() != 250*time.Millisecond {
		t.Errorf("WaitTimeout() = %v, want 250ms", loaded.WaitTimeout())
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"source":"telepathy"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err == nil {
		t.Fatal("Load() of invalid source succeeded")
	}
	if c.Source != "sim" {
		t.Errorf("fallback Source = %q, want default sim", c.Source)
	}
}

func TestValidateNormalizesEmpty(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if c.TickRateMHz != 19 || c.WrapSpan != 65536 {
		t.Errorf("normalized timing = %d MHz wrap %d", c.TickRateMHz, c.WrapSpan)
	}
	if c.Source != "sim" || c.WaitMode != "sleep" || c.Format != "table" {
		t.Errorf("normalized selection = %q %q %q", c.Source, c.WaitMode, c.Format)
	}
}

func TestValidateRejectsHugePrescale(t *testing.T) {
	c := DefaultConfig()
	c.PrescaleExp = 11
	if err := c.Validate(); err == nil {
		t.Error("Validate() accepted prescale_exp 11")
	}
}
