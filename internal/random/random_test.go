package random

import "testing"

func TestFixedSeedRepeats(t *testing.T) {
	t.Parallel()

	a, err := New(42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, _ := New(42)
	for range 10 {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draws differ: %d != %d", x, y)
		}
	}
}

func TestNewSeedVaries(t *testing.T) {
	t.Parallel()

	a, err := NewSeed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if a == b {
		t.Fatalf("two seeds both %d", a)
	}
}
