package effect

import "testing"

func TestFadeMonotonicAndCommit(t *testing.T) {
	f := NewFade(2.0, EaseLinear)

	if f.Finished() {
		t.Fatal("fresh fade should not be finished")
	}

	last := -1.0
	for i := 0; i < 4; i++ {
		f.Update(0.5)
		if f.Elapsed() <= last {
			t.Errorf("elapsed must increase monotonically, got %f after %f", f.Elapsed(), last)
		}
		last = f.Elapsed()
	}
	if !f.Finished() {
		t.Errorf("after %f sec the 2 sec fade should be finished", last)
	}
	if a := f.Alpha(); a != 1.0 {
		t.Errorf("finished fade Alpha = %f, want 1.0", a)
	}
}

func TestFadeAlphaMidpoint(t *testing.T) {
	f := NewFade(2.0, EaseLinear)
	f.Update(1.0)
	if a := f.Alpha(); !almostEqual(a, 0.5) {
		t.Errorf("midpoint Alpha = %f, want 0.5", a)
	}
}

func TestFadeZeroDuration(t *testing.T) {
	f := NewFade(0, EaseLinear)
	if !f.Finished() {
		t.Error("zero duration fade finishes immediately")
	}
	if a := f.Alpha(); a != 1.0 {
		t.Errorf("Alpha = %f, want 1.0", a)
	}
}
