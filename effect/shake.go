package effect

import (
	"math"
	"math/rand"
)

// Shake generates a randomized screen displacement whose magnitude
// decays quadratically over its duration. With infinite set, the timer
// window reseeds itself instead of stopping.
type Shake struct {
	duration  float64
	timer     float64
	intensity float64
	frequency float64
	infinite  bool

	rng *rand.Rand
}

// DefaultShakeFrequency is used when a script omits the frequency arg.
const DefaultShakeFrequency = 35.0

// NewShake builds an idle controller. rng nil gets a self-seeded source.
func NewShake(rng *rand.Rand) *Shake {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Shake{rng: rng}
}

// Start (re)arms the controller.
func (s *Shake) Start(duration, intensity, frequency float64, infinite bool) {
	if frequency <= 0 {
		frequency = DefaultShakeFrequency
	}
	s.duration = duration
	s.timer = duration
	s.intensity = intensity
	s.frequency = frequency
	s.infinite = infinite
}

// Active reports whether an offset is currently produced.
func (s *Shake) Active() bool { return s.timer > 0 }

// Update counts the timer down, reseeding the window when infinite.
func (s *Shake) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if s.infinite && s.timer <= 0 {
		s.timer = s.duration
	}
	if s.timer <= 0 {
		return
	}
	s.timer -= dt
}

// Stop disarms the controller immediately.
func (s *Shake) Stop() {
	s.timer = 0
	s.infinite = false
}

// Offset draws the displacement for this frame. Idle controller returns
// the zero point.
func (s *Shake) Offset() Point {
	if s.timer <= 0 || s.duration <= 0 {
		return Point{}
	}

	t := s.timer / s.duration
	decay := t * t // quadratic ease-out

	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.rng.Float64() * s.intensity * decay

	return Point{
		X: math.Cos(angle) * dist,
		Y: math.Sin(angle) * dist,
	}
}
