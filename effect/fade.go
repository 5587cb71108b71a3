package effect

import "math"

// Fade tracks a timed cross-fade between two backgrounds. The scene owns
// the two images; Fade only owns the clock so it stays testable without
// pixels.
type Fade struct {
	elapsed  float64
	duration float64
	easing   Easing
}

// NewFade starts a fade clock. Non-positive duration finishes
// immediately.
func NewFade(duration float64, easing Easing) *Fade {
	if easing == nil {
		easing = EaseLinear
	}
	return &Fade{duration: duration, easing: easing}
}

// Update advances the clock monotonically.
func (f *Fade) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	f.elapsed += dt
}

// Alpha returns the blend weight of the incoming image in [0,1].
func (f *Fade) Alpha() float64 {
	if f.duration <= 0 || f.elapsed >= f.duration {
		return 1.0
	}
	v := f.easing(f.elapsed / f.duration)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Elapsed returns accumulated fade time.
func (f *Fade) Elapsed() float64 { return f.elapsed }

// Finished reports whether the incoming image should be committed.
func (f *Fade) Finished() bool { return f.elapsed >= f.duration }
