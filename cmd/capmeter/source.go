package main

import (
	"fmt"

	"github.com/ghQQ/capmeter/pkg/capture"
	"github.com/ghQQ/capmeter/pkg/capture/gpio"
	"github.com/ghQQ/capmeter/pkg/capture/serialport"
	"github.com/ghQQ/capmeter/pkg/capture/sim"
)

// buildSource opens the configured capture source. The sim source is
// pre-loaded with edges spaced --sim-period apart, enough to satisfy the
// requested number of measurements.
func buildSource(edges int) (capture.Source, func() error, error) {
	timing := timingConfig()

	switch cfg.Source {
	case "sim":
		src := sim.New("sim0", timing.WrapSpan)
		ticksPerEdge := uint64(simPeriodUS) * uint64(timing.Divisor())
		at := uint64(0)
		for i := 0; i < edges; i++ {
			at += ticksPerEdge
			src.Schedule(at)
		}
		return src, func() error { return nil }, nil

	case "gpio":
		src, err := gpio.Open(gpio.Config{Pin: cfg.GPIOPin, Timing: timing})
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil

	case "serial":
		src, err := serialport.Open(serialport.Config{
			Device:   cfg.SerialDevice,
			BaudRate: cfg.SerialBaud,
		})
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
}
