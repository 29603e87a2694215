// Package capture defines the boundary to the hardware (or simulated)
// input-capture channel that feeds the period estimator.
package capture

// Source is the interface a capture channel must implement. It models a
// free-running hardware counter with a capture register and a latched
// overflow flag: the flag is set when the counter wraps and stays set until
// cleared, so multiple wraps between clears collapse into a single flag.
type Source interface {
	// Name returns the name of the capture channel (e.g. "sim", "gpio17").
	Name() string

	// ReadTimestamp returns the most recent captured counter value.
	ReadTimestamp() uint32

	// Overflowed reports whether the counter wrapped since the last clear.
	Overflowed() bool

	// ClearOverflow clears the latched overflow flag.
	ClearOverflow()

	// EdgeAvailable reports whether a new capture event is ready to read.
	// Used by the polling loop, not by the estimator itself.
	EdgeAvailable() bool
}

// Registry holds all registered capture sources.
type Registry struct {
	sources []Source
}

// NewRegistry creates a new source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make([]Source, 0),
	}
}

// Register adds a source to the registry.
func (r *Registry) Register(s Source) {
	r.sources = append(r.sources, s)
}

// Sources returns all registered sources.
func (r *Registry) Sources() []Source {
	return r.sources
}

// GetByName returns a source by name, or nil if not found.
func (r *Registry) GetByName(name string) Source {
	for _, s := range r.sources {
		if s.Name() == name {
			return s
		}
	}
	return nil
}
