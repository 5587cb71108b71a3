package effect

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate in pixel space.
type Point struct {
	X, Y float64
}

// Lerp interpolates linearly between a and b by v. v outside [0,1]
// extrapolates, which overshoot easings rely on.
func Lerp(a, b Point, v float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*v,
		Y: a.Y + (b.Y-a.Y)*v,
	}
}

// Easing maps a normalized time fraction t in [0,1] to a progress value.
// The result may leave [0,1] transiently for back/elastic variants.
type Easing func(t float64) float64

const backOvershoot = 1.70158

func EaseLinear(t float64) float64 { return t }

func EaseOutCubic(t float64) float64 {
	u := 1.0 - t
	return 1.0 - u*u*u
}

func EaseInCubic(t float64) float64 { return t * t * t }

func EaseOutBack(t float64) float64 {
	u := t - 1.0
	return u*u*((backOvershoot+1.0)*u+backOvershoot) + 1.0
}

func EaseInBack(t float64) float64 {
	return t * t * ((backOvershoot+1.0)*t - backOvershoot)
}

func EaseElastic(t float64) float64 {
	const period = 0.3
	switch {
	case t == 0.0:
		return 0.0
	case t == 1.0:
		return 1.0
	default:
		s := period / 4.0
		return math.Pow(2.0, -10.0*t)*math.Sin((t-s)*2.0*math.Pi/period) + 1.0
	}
}

// Easing names as they appear in authored scripts.
const (
	EasingLinear   = "linear"
	EasingOutCubic = "out_cubic"
	EasingInCubic  = "in_cubic"
	EasingOutBack  = "out_back"
	EasingInBack   = "in_back"
	EasingElastic  = "elastic"
)

// ParseEasing resolves a script easing name. Unknown names are content
// errors.
func ParseEasing(name string) (Easing, error) {
	switch name {
	case EasingLinear:
		return EaseLinear, nil
	case EasingOutCubic:
		return EaseOutCubic, nil
	case EasingInCubic:
		return EaseInCubic, nil
	case EasingOutBack:
		return EaseOutBack, nil
	case EasingInBack:
		return EaseInBack, nil
	case EasingElastic:
		return EaseElastic, nil
	default:
		return nil, fmt.Errorf("effect: unknown easing %q", name)
	}
}

const minDuration = 1e-6

// Animator interpolates a point from start to end over duration seconds
// under an easing law.
type Animator struct {
	start, end Point
	duration   float64
	elapsed    float64
	v          float64
	easing     Easing
}

func NewAnimator(start, end Point, duration float64, easing Easing) *Animator {
	if duration < minDuration {
		duration = minDuration
	}
	if easing == nil {
		easing = EaseLinear
	}
	return &Animator{start: start, end: end, duration: duration, easing: easing}
}

// Update advances the animation clock. Negative or NaN dt is floored to
// zero.
func (a *Animator) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	a.elapsed += dt
	if a.elapsed >= a.duration {
		a.elapsed = a.duration
	}
	t := a.elapsed / a.duration
	a.v = a.easing(t)
}

// Curr returns the current interpolated point.
func (a *Animator) Curr() Point { return Lerp(a.start, a.end, a.v) }

// Finished reports whether the animation has run its full duration.
func (a *Animator) Finished() bool { return a.elapsed >= a.duration }

// Reset rewinds the clock keeping endpoints and easing.
func (a *Animator) Reset() {
	a.elapsed = 0
	a.v = 0
}
