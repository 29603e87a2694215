//go:build linux

package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sys/unix"
)

const sysfsRoot = "/sys/class/gpio"

// Source is a sysfs GPIO capture channel. Edge interrupts are detected by
// polling the value file for POLLPRI; timestamps come from the software
// counter.
type Source struct {
	mu      sync.Mutex
	cfg     Config
	name    string
	valueFd int
	counter *softCounter
}

// Open exports the pin, arms edge detection, and opens the value file.
func Open(cfg Config) (*Source, error) {
	if cfg.Edge == "" {
		cfg.Edge = EdgeFalling
	}

	pinDir := filepath.Join(sysfsRoot, fmt.Sprintf("gpio%d", cfg.Pin))

	// Export is idempotent in effect: EBUSY means already exported.
	if _, err := os.Stat(pinDir); os.IsNotExist(err) {
		if err := os.WriteFile(filepath.Join(sysfsRoot, "export"), []byte(strconv.Itoa(cfg.Pin)), 0o200); err != nil {
			return nil, fmt.Errorf("cannot export gpio %d: %w", cfg.Pin, err)
		}
	}

	if err := os.WriteFile(filepath.Join(pinDir, "direction"), []byte("in"), 0o644); err != nil {
		return nil, fmt.Errorf("cannot set gpio %d direction: %w", cfg.Pin, err)
	}
	if err := os.WriteFile(filepath.Join(pinDir, "edge"), []byte(string(cfg.Edge)), 0o644); err != nil {
		return nil, fmt.Errorf("cannot arm gpio %d edge detection: %w", cfg.Pin, err)
	}

	fd, err := unix.Open(filepath.Join(pinDir, "value"), unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot open gpio %d value: %w", cfg.Pin, err)
	}

	s := &Source{
		cfg:     cfg,
		name:    fmt.Sprintf("gpio%d", cfg.Pin),
		valueFd: fd,
		counter: newSoftCounter(cfg.Timing),
	}

	// Drain the initial readable state so the first poll reflects a real
	// edge rather than the current level.
	s.drain()

	return s, nil
}

// Close releases the value file descriptor. The pin stays exported.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valueFd < 0 {
		return nil
	}
	err := unix.Close(s.valueFd)
	s.valueFd = -1
	return err
}

// Name returns the source name.
func (s *Source) Name() string { return s.name }

// EdgeAvailable checks for a pending edge interrupt without blocking and
// latches the counter when one fired.
func (s *Source) EdgeAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valueFd < 0 {
		return false
	}

	fds := []unix.PollFd{{Fd: int32(s.valueFd), Events: unix.POLLPRI | unix.POLLERR}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 || fds[0].Revents&unix.POLLPRI == 0 {
		return false
	}

	s.counter.latch()
	s.drain()
	return true
}

// ReadTimestamp returns the counter value latched at the last edge.
func (s *Source) ReadTimestamp() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter.read()
}

// Overflowed reports the latched wraparound flag.
func (s *Source) Overflowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter.overflowed()
}

// ClearOverflow clears the wraparound flag.
func (s *Source) ClearOverflow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter.clearOverflow()
}

// drain rewinds and reads the value file, acknowledging the interrupt.
func (s *Source) drain() {
	var buf [8]byte
	unix.Seek(s.valueFd, 0, 0)
	unix.Read(s.valueFd, buf[:])
}
