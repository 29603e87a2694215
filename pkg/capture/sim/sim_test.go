package sim

import "testing"

func TestLatchAndRead(t *testing.T) {
	s := New("sim0", 65536)
	s.Schedule(1000, 70000)

	if !s.EdgeAvailable() {
		t.Fatal("EdgeAvailable() = false with scheduled edges")
	}
	if got := s.ReadTimestamp(); got != 1000 {
		t.Errorf("ReadTimestamp() = %d, want 1000", got)
	}
	if s.Overflowed() {
		t.Error("Overflowed() = true before any wrap")
	}

	if !s.EdgeAvailable() {
		t.Fatal("EdgeAvailable() = false for second edge")
	}
	if got := s.ReadTimestamp(); got != 70000-65536 {
		t.Errorf("ReadTimestamp() = %d, want %d", got, 70000-65536)
	}
	if !s.Overflowed() {
		t.Error("Overflowed() = false after crossing a wrap boundary")
	}

	if s.EdgeAvailable() {
		t.Error("EdgeAvailable() = true with no pending edges")
	}
}

func TestOverflowFlagIsLatchedNotCounted(t *testing.T) {
	s := New("sim0", 65536)
	// Three full wraps between edges collapse into one flag.
	s.Schedule(100, 3*65536+50)

	s.EdgeAvailable()
	s.ClearOverflow()

	s.EdgeAvailable()
	if !s.Overflowed() {
		t.Fatal("Overflowed() = false after three wraps")
	}
	s.ClearOverflow()
	if s.Overflowed() {
		t.Error("Overflowed() = true after clear with no new wrap")
	}
}

func TestClearThenNewWrapSetsFlagAgain(t *testing.T) {
	s := New("sim0", 65536)
	s.Schedule(70000, 140000)

	s.EdgeAvailable()
	if !s.Overflowed() {
		t.Fatal("first wrap not flagged")
	}
	s.ClearOverflow()

	s.EdgeAvailable()
	if !s.Overflowed() {
		t.Error("second wrap not flagged after clear")
	}
}

func TestPending(t *testing.T) {
	s := New("sim0", 65536)
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	s.Schedule(1, 2, 3)
	if s.Pending() != 3 {
		t.Errorf("Pending() = %d, want 3", s.Pending())
	}
	s.EdgeAvailable()
	if s.Pending() != 2 {
		t.Errorf("Pending() = %d after latch, want 2", s.Pending())
	}
}
