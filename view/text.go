package view

import (
	"image"
	"image/color"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DrawText draws a single line with its top-left corner at `at`.
func DrawText(dst *image.RGBA, face font.Face, text string, at image.Point, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(at.X),
			Y: fixed.I(at.Y) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}

// DrawTextCenter draws a single line centered on `center`.
func DrawTextCenter(dst *image.RGBA, face font.Face, text string, center image.Point, c color.Color) {
	w := TextWidth(face, text)
	h := LineHeight(face)
	DrawText(dst, face, text, center.Sub(image.Point{X: w / 2, Y: h / 2}), c)
}

// TextWidth measures the advance of a line in pixels.
func TextWidth(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}

// LineHeight returns the pixel height one text line occupies.
func LineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// WrapPixels breaks text into lines not wider than maxWidth pixels.
// Explicit newlines are honored; breaking happens per rune so CJK text
// without spaces wraps too. A single rune wider than maxWidth gets its
// own line rather than looping.
func WrapPixels(face font.Face, text string, maxWidth int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line []rune
		for _, r := range para {
			candidate := append(line, r)
			if len(line) > 0 && TextWidth(face, string(candidate)) > maxWidth {
				lines = append(lines, string(line))
				line = []rune{r}
				continue
			}
			line = candidate
		}
		lines = append(lines, string(line))
	}
	return lines
}

// WrapCells breaks text by terminal-style cell width, wide runes
// counting two. The dialogue log uses it to wrap independently of the
// rendered font.
func WrapCells(text string, maxCells int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line []rune
		cells := 0
		for _, r := range para {
			w := runewidth.RuneWidth(r)
			if len(line) > 0 && cells+w > maxCells {
				lines = append(lines, string(line))
				line = line[:0]
				cells = 0
			}
			line = append(line, r)
			cells += w
		}
		lines = append(lines, string(line))
	}
	return lines
}
