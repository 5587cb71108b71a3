// Package effect holds the small time-driven helpers the dialogue scene
// composes every frame: progressive text reveal, coordinate animation,
// screen shake and background fades. All of them consume a clamped
// per-frame delta time and keep their suspension as explicit state.
package effect

import "math"

// BaseCPS is the reveal rate in characters per second before the user
// configured speed scale applies.
const BaseCPS = 18.0

// Typewriter reveals a progressively longer prefix of its text over time.
type Typewriter struct {
	text     []rune
	progress float64
	scale    float64
}

// NewTypewriter builds the reveal sequencer. scale 1.0 is the midpoint
// of the configured speed range; scale 0 freezes the reveal, leaving
// Skip as the only way to finish.
func NewTypewriter(text string, scale float64) *Typewriter {
	if scale < 0 || math.IsNaN(scale) {
		scale = 1.0
	}
	return &Typewriter{text: []rune(text), scale: scale}
}

// CPS returns the current reveal rate in characters per second.
func (tw *Typewriter) CPS() float64 { return BaseCPS * tw.scale }

// SetScale updates the speed scale without touching progress. Zero
// freezes the reveal; negative and NaN are ignored.
func (tw *Typewriter) SetScale(scale float64) {
	if scale >= 0 && !math.IsNaN(scale) {
		tw.scale = scale
	}
}

// Update advances the reveal by dt seconds. Negative or NaN dt is
// floored to zero.
func (tw *Typewriter) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	tw.progress = math.Min(float64(len(tw.text)), tw.progress+tw.CPS()*dt)
}

// VisibleText returns the currently revealed prefix.
func (tw *Typewriter) VisibleText() string {
	n := int(math.Round(tw.progress))
	if n > len(tw.text) {
		n = len(tw.text)
	}
	return string(tw.text[:n])
}

// FullText returns the whole text regardless of progress.
func (tw *Typewriter) FullText() string { return string(tw.text) }

// Finished reports whether every character is revealed.
func (tw *Typewriter) Finished() bool {
	return tw.progress >= float64(len(tw.text))
}

// Skip jumps directly to the fully revealed state.
func (tw *Typewriter) Skip() { tw.progress = float64(len(tw.text)) }

// Reset replaces the text and zeroes progress.
func (tw *Typewriter) Reset(text string) {
	tw.text = []rune(text)
	tw.progress = 0
}
