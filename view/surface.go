// Package view holds the software rendering helpers the scenes draw
// with: RGBA surface operations, font faces and text layout, and the
// glowing UI buttons.
package view

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Fill paints the whole surface with a color.
func Fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect paints a rectangle, alpha blending when c is translucent.
func FillRect(dst *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(dst, rect.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// Blit draws src with its top-left corner at `at`.
func Blit(dst *image.RGBA, src image.Image, at image.Point) {
	rect := image.Rectangle{Min: at, Max: at.Add(src.Bounds().Size())}
	draw.Draw(dst, rect, src, src.Bounds().Min, draw.Over)
}

// BlitCenter draws src centered on `center`.
func BlitCenter(dst *image.RGBA, src image.Image, center image.Point) {
	size := src.Bounds().Size()
	Blit(dst, src, center.Sub(image.Point{X: size.X / 2, Y: size.Y / 2}))
}

// BlitAlpha draws src at `at` with a uniform opacity in 0..1.
func BlitAlpha(dst *image.RGBA, src image.Image, at image.Point, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha >= 1 {
		Blit(dst, src, at)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha * 255)})
	rect := image.Rectangle{Min: at, Max: at.Add(src.Bounds().Size())}
	draw.DrawMask(dst, rect, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
}

// Darken multiplies the RGB channels inside rect by factor in 0..1.
// Non-highlighted character sprites get this treatment.
func Darken(dst *image.RGBA, rect image.Rectangle, factor float64) {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(rect.Min.X, y):dst.PixOffset(rect.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = uint8(float64(row[i+0]) * factor)
			row[i+1] = uint8(float64(row[i+1]) * factor)
			row[i+2] = uint8(float64(row[i+2]) * factor)
		}
	}
}

// DarkenImage returns a copy of src with its RGB channels scaled.
func DarkenImage(src *image.RGBA, factor float64) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	Darken(out, out.Bounds(), factor)
	return out
}

// BottomGradient shades rect with black ramping from transparent at the
// top edge to maxAlpha at the bottom. The dialogue window backdrop.
func BottomGradient(dst *image.RGBA, rect image.Rectangle, maxAlpha uint8) {
	rect = rect.Intersect(dst.Bounds())
	height := rect.Dy()
	if height <= 0 {
		return
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		a := uint8(int(maxAlpha) * (y - rect.Min.Y + 1) / height)
		line := image.Rect(rect.Min.X, y, rect.Max.X, y+1)
		FillRect(dst, line, color.RGBA{A: a})
	}
}
