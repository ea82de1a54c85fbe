package randgen

import "testing"

func TestEngine_DeterministicForSameSeed(t *testing.T) {
	t.Parallel()

	a := New(99)
	b := New(99)

	for i := 0; i < 100; i++ {
		if a.RandInt() != b.RandInt() {
			t.Fatalf("RandInt diverged at iteration %d for identical seeds", i)
		}
	}
}

func TestEngine_RandIntRangeBounds(t *testing.T) {
	t.Parallel()

	e := New(1)
	for i := 0; i < 1000; i++ {
		v := e.RandIntRange(5, 10)
		if v < 5 || v >= 10 {
			t.Fatalf("RandIntRange(5, 10) = %d, out of bounds", v)
		}
	}
}

func TestEngine_RandIntRangePanicsOnEmptyRange(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for min >= max")
		}
	}()
	New(1).RandIntRange(5, 5)
}

func TestEngine_RandStrScopeLengthBounds(t *testing.T) {
	t.Parallel()

	e := New(2)
	for i := 0; i < 200; i++ {
		b := e.RandStrScope(2, 6)
		if len(b) < 2 || len(b) >= 6 {
			t.Fatalf("RandStrScope(2, 6) produced length %d, out of bounds", len(b))
		}
	}
}

func TestEngine_IndependentStreams(t *testing.T) {
	t.Parallel()

	e := New(42)
	// RandByte, RandInt and RandSize draw from independent generators;
	// calling one must not perturb the others' sequences relative to a
	// freshly constructed Engine with the same seed that only calls the
	// other methods.
	e2 := New(42)

	e.RandByte()
	if e.RandInt() != e2.RandInt() {
		t.Fatal("drawing from byteRand must not perturb intRand's sequence")
	}
}
