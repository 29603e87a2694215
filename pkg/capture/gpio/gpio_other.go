//go:build !linux

package gpio

import "fmt"

// Source is unavailable off Linux; sysfs GPIO is a Linux interface.
type Source struct{}

// Open fails on non-Linux platforms.
func Open(cfg Config) (*Source, error) {
	return nil, fmt.Errorf("gpio capture source requires linux sysfs (pin %d)", cfg.Pin)
}

func (s *Source) Close() error         { return nil }
func (s *Source) Name() string         { return "gpio" }
func (s *Source) EdgeAvailable() bool  { return false }
func (s *Source) ReadTimestamp() uint32 { return 0 }
func (s *Source) Overflowed() bool     { return false }
func (s *Source) ClearOverflow()       {}
