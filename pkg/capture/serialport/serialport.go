// Package serialport provides a capture source fed by an external MCU that
// owns the hardware timer and streams capture events over a serial line.
//
// Wire format, one event per line:
//
//	E <ticks> <overflow>
//
// where ticks is the captured counter value in decimal and overflow is 1 if
// the MCU's overflow flag was set since the previous event, else 0. Lines
// not starting with E are ignored (MCU debug output).
package serialport

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// event is one parsed capture report.
type event struct {
	ticks    uint32
	overflow bool
}

// eventBuffer bounds how many unread edges we keep before dropping the
// oldest; a stalled host should not grow memory without bound.
const eventBuffer = 256

// Config holds serial line settings.
type Config struct {
	// Device path, e.g. "/dev/ttyACM0".
	Device string

	// BaudRate of the MCU link.
	BaudRate int
}

// DefaultConfig returns settings for a typical USB CDC MCU link.
func DefaultConfig(device string) Config {
	return Config{
		Device:   device,
		BaudRate: 115200,
	}
}

// Source reads capture events from a serial port. A background goroutine
// parses the stream; the Source interface drains the parsed queue.
type Source struct {
	mu sync.Mutex

	name   string
	port   serial.Port
	events chan event

	// latched capture state
	held     event
	haveHeld bool
	overflow bool

	readErr error
}

// Open opens the serial device and starts the reader.
func Open(cfg Config) (*Source, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
	}
	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("cannot open serial device %s: %w", cfg.Device, err)
	}

	s := newSource(cfg.Device, port)
	go s.readLoop(port)
	return s, nil
}

func newSource(name string, port serial.Port) *Source {
	return &Source{
		name:   name,
		port:   port,
		events: make(chan event, eventBuffer),
	}
}

// Close stops the reader by closing the port.
func (s *Source) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}

// Err returns the error that ended the read loop, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErr
}

// readLoop parses the line stream until the port closes.
func (s *Source) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ev, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		select {
		case s.events <- ev:
		default:
			// Queue full: drop the oldest event to keep the newest.
			select {
			case <-s.events:
			default:
			}
			s.events <- ev
		}
	}

	s.mu.Lock()
	if err := scanner.Err(); err != nil {
		s.readErr = err
	} else {
		s.readErr = io.EOF
	}
	s.mu.Unlock()
}

// parseLine parses "E <ticks> <overflow>".
func parseLine(line string) (event, bool) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) != 3 || fields[0] != "E" {
		return event{}, false
	}
	ticks, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return event{}, false
	}
	of, err := strconv.ParseUint(fields[2], 10, 1)
	if err != nil {
		return event{}, false
	}
	return event{ticks: uint32(ticks), overflow: of == 1}, true
}

// Name returns the device path.
func (s *Source) Name() string { return s.name }

// EdgeAvailable latches the next queued event, if any. The event's overflow
// report is OR'd into the latched flag, so it survives until cleared even
// across several events.
func (s *Source) EdgeAvailable() bool {
	select {
	case ev := <-s.events:
		s.mu.Lock()
		s.held = ev
		s.haveHeld = true
		if ev.overflow {
			s.overflow = true
		}
		s.mu.Unlock()
		return true
	default:
		return false
	}
}

// ReadTimestamp returns the latched capture value.
func (s *Source) ReadTimestamp() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held.ticks
}

// Overflowed reports the latched overflow flag.
func (s *Source) Overflowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflow
}

// ClearOverflow clears the latched overflow flag.
func (s *Source) ClearOverflow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overflow = false
}
