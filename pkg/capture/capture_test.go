package capture

import "testing"

type stubSource struct {
	name string
}

func (s *stubSource) Name() string          { return s.name }
func (s *stubSource) ReadTimestamp() uint32 { return 0 }
func (s *stubSource) Overflowed() bool      { return false }
func (s *stubSource) ClearOverflow()        {}
func (s *stubSource) EdgeAvailable() bool   { return false }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if len(r.Sources()) != 0 {
		t.Errorf("new registry has %d sources", len(r.Sources()))
	}

	a := &stubSource{name: "gpio17"}
	b := &stubSource{name: "sim0"}
	r.Register(a)
	r.Register(b)

	if len(r.Sources()) != 2 {
		t.Fatalf("got %d sources, want 2", len(r.Sources()))
	}
	if got := r.GetByName("sim0"); got != b {
		t.Errorf("GetByName(sim0) = %v", got)
	}
	if got := r.GetByName("absent"); got != nil {
		t.Errorf("GetByName(absent) = %v, want nil", got)
	}
}
