package sequencer

import "testing"

func TestNewPatternAllFalse(t *testing.T) {
	p := NewPattern(16)
	if len(p) != 16 {
		t.Fatalf("len = %d, want 16", len(p))
	}
	if p.Any() {
		t.Error("new pattern should have no active steps")
	}
	if got := p.Active(); len(got) != 0 {
		t.Errorf("Active() = %v, want empty", got)
	}
}

func TestPatternAnyAndActive(t *testing.T) {
	p := Pattern{false, true, false, true}
	if !p.Any() {
		t.Error("Any() = false, want true")
	}
	got := p.Active()
	want := []int{1, 3}
	if len(got) != len(want) {
		t.Fatalf("Active() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Active()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPatternCloneIsIndependent(t *testing.T) {
	p := Pattern{true, false}
	q := p.Clone()
	q[0] = false
	if !p[0] {
		t.Error("mutating a clone changed the original")
	}
}
