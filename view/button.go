package view

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
)

// glow ramp speed, full glow in 1/8 second of hovering.
const hoverRampPerSec = 8.0

var (
	buttonTextColor = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	buttonGlowColor = color.RGBA{R: 255, G: 220, B: 120, A: 255}
	buttonBackColor = color.RGBA{A: 110}
)

// GlowButton is a clickable label that brightens while hovered and can
// stay lit while latched, which the auto and skip toggles use.
type GlowButton struct {
	label   string
	face    font.Face
	center  image.Point
	padding image.Point

	// Latched keeps the glow on regardless of hovering.
	Latched bool
	// Hidden buttons neither draw nor react.
	Hidden bool

	hover float64
}

func NewGlowButton(label string, face font.Face, center image.Point) *GlowButton {
	return &GlowButton{
		label:   label,
		face:    face,
		center:  center,
		padding: image.Point{X: 14, Y: 6},
	}
}

func (b *GlowButton) Label() string { return b.label }

// SetLabel swaps the label, e.g. after a locale reload.
func (b *GlowButton) SetLabel(label string) { b.label = label }

func (b *GlowButton) SetCenter(center image.Point) { b.center = center }

// Bounds returns the clickable rectangle, label size plus padding.
func (b *GlowButton) Bounds() image.Rectangle {
	w := TextWidth(b.face, b.label)/2 + b.padding.X
	h := LineHeight(b.face)/2 + b.padding.Y
	return image.Rect(b.center.X-w, b.center.Y-h, b.center.X+w, b.center.Y+h)
}

// Contains reports whether pt falls on the button.
func (b *GlowButton) Contains(pt image.Point) bool {
	return !b.Hidden && pt.In(b.Bounds())
}

// Update ramps the glow towards the hover state.
func (b *GlowButton) Update(dt float64, mouse image.Point) {
	target := 0.0
	if b.Contains(mouse) {
		target = 1.0
	}
	if b.hover < target {
		b.hover += dt * hoverRampPerSec
		if b.hover > target {
			b.hover = target
		}
	} else if b.hover > target {
		b.hover -= dt * hoverRampPerSec
		if b.hover < target {
			b.hover = target
		}
	}
}

// Glow returns the current glow amount in 0..1.
func (b *GlowButton) Glow() float64 {
	if b.Latched {
		return 1.0
	}
	return b.hover
}

// Draw renders the button onto dst.
func (b *GlowButton) Draw(dst *image.RGBA) {
	if b.Hidden {
		return
	}
	bounds := b.Bounds()
	FillRect(dst, bounds, buttonBackColor)

	glow := b.Glow()
	if glow > 0 {
		halo := buttonGlowColor
		halo.A = uint8(90 * glow)
		for _, off := range []image.Point{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}} {
			DrawTextCenter(dst, b.face, b.label, b.center.Add(off), halo)
		}
	}
	c := buttonTextColor
	if glow > 0 {
		c = lerpColor(buttonTextColor, buttonGlowColor, glow)
	}
	DrawTextCenter(dst, b.face, b.label, b.center, c)
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
