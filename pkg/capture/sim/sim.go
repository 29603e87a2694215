// Package sim provides a deterministic capture source for tests and demos.
// Edges are scheduled at absolute tick times on a virtual free-running
// counter; raw capture values and the latched overflow flag behave like the
// hardware channel they stand in for.
package sim

import "sync"

// Source replays a script of edge times against a virtual counter.
//
// The overflow flag is latched, not counted: if several wraps occur between
// two ClearOverflow calls they collapse into a single set flag, reproducing
// the accuracy ceiling of the real capture channel.
type Source struct {
	mu sync.Mutex

	name     string
	wrapSpan uint32

	// pending edge times in absolute ticks since counter start
	pending []uint64

	// latched capture state
	captured   uint32
	capturedAt uint64 // absolute tick of the latched edge
	overflow   bool

	// wrap epoch at the last ClearOverflow (or start)
	clearedEpoch uint64
}

// New creates a simulated source with the given wraparound span.
func New(name string, wrapSpan uint32) *Source {
	return &Source{
		name:     name,
		wrapSpan: wrapSpan,
	}
}

// Schedule queues edges at the given absolute tick times. Times must be
// non-decreasing across calls; the source does not reorder them.
func (s *Source) Schedule(ticks ...uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, ticks...)
}

// Pending returns the number of scheduled edges not yet consumed.
func (s *Source) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Name returns the source name.
func (s *Source) Name() string {
	return s.name
}

// EdgeAvailable latches the next scheduled edge, if any, and reports
// whether one is ready. Latching advances the virtual counter to the edge
// time, setting the overflow flag if a wrap boundary was crossed since the
// last clear.
func (s *Source) EdgeAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return false
	}

	at := s.pending[0]
	s.pending = s.pending[1:]

	s.captured = uint32(at % uint64(s.wrapSpan))
	s.capturedAt = at
	if at/uint64(s.wrapSpan) > s.clearedEpoch {
		s.overflow = true
	}
	return true
}

// ReadTimestamp returns the latched capture value.
func (s *Source) ReadTimestamp() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captured
}

// Overflowed reports the latched overflow flag.
func (s *Source) Overflowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflow
}

// ClearOverflow clears the flag. Wraps already folded into the latched
// edge's epoch stay cleared; a later edge past another boundary re-sets it.
func (s *Source) ClearOverflow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overflow = false
	s.clearedEpoch = s.capturedAt / uint64(s.wrapSpan)
}
