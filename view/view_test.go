package view

import (
	"image"
	"image/color"
	"reflect"
	"strings"
	"testing"
)

func TestFillAndDarken(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Fill(dst, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	if got := dst.RGBAAt(2, 2); got.R != 200 {
		t.Fatalf("Fill: got %v", got)
	}

	Darken(dst, image.Rect(0, 0, 2, 4), 0.5)
	dark := dst.RGBAAt(1, 1)
	lit := dst.RGBAAt(3, 1)
	if dark.R != 100 || dark.G != 50 || dark.B != 25 {
		t.Errorf("darkened pixel = %v", dark)
	}
	if dark.A != 255 {
		t.Errorf("Darken touched alpha: %v", dark)
	}
	if lit.R != 200 {
		t.Errorf("pixel outside rect changed: %v", lit)
	}
}

func TestBlitAlpha(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	Fill(src, color.RGBA{R: 255, A: 255})

	BlitAlpha(dst, src, image.Point{}, 0)
	if got := dst.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("alpha 0 should draw nothing, got %v", got)
	}
	BlitAlpha(dst, src, image.Point{}, 0.5)
	if got := dst.RGBAAt(0, 0); got.A == 0 || got.A == 255 {
		t.Errorf("alpha 0.5 should blend, got %v", got)
	}
	BlitAlpha(dst, src, image.Point{X: 2, Y: 2}, 1)
	if got := dst.RGBAAt(2, 2); got.R != 255 || got.A != 255 {
		t.Errorf("alpha 1 should copy, got %v", got)
	}
}

func TestBottomGradient(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 10))
	Fill(dst, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	BottomGradient(dst, dst.Bounds(), 200)

	top := dst.RGBAAt(0, 0)
	bottom := dst.RGBAAt(0, 9)
	if top.R <= bottom.R {
		t.Errorf("gradient not darker at bottom: top %v bottom %v", top, bottom)
	}
}

func TestWrapPixels(t *testing.T) {
	face := BasicFace() // fixed 7px advance
	lines := WrapPixels(face, "aaaa", 7*2)
	if want := []string{"aa", "aa"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %v, want %v", lines, want)
	}

	lines = WrapPixels(face, "ab\ncd", 7*10)
	if want := []string{"ab", "cd"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("newline split = %v, want %v", lines, want)
	}

	// a rune wider than the limit still lands on its own line
	lines = WrapPixels(face, "xy", 1)
	if want := []string{"x", "y"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("tiny width = %v, want %v", lines, want)
	}

	if lines := WrapPixels(face, "", 100); !reflect.DeepEqual(lines, []string{""}) {
		t.Errorf("empty text = %v", lines)
	}
}

func TestWrapCells(t *testing.T) {
	lines := WrapCells("abcdef", 4)
	if want := []string{"abcd", "ef"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %v, want %v", lines, want)
	}

	// wide runes count two cells
	lines = WrapCells("ああa", 4)
	if want := []string{"ああ", "a"}; !reflect.DeepEqual(lines, want) {
		t.Errorf("wide runes = %v, want %v", lines, want)
	}
}

func TestGlowButton(t *testing.T) {
	b := NewGlowButton("AUTO", BasicFace(), image.Point{X: 100, Y: 100})

	if !b.Contains(image.Point{X: 100, Y: 100}) {
		t.Fatal("center not inside the button")
	}
	if b.Contains(image.Point{X: 0, Y: 0}) {
		t.Fatal("far point inside the button")
	}

	// glow ramps while hovered and clamps at 1
	for i := 0; i < 100; i++ {
		b.Update(0.016, image.Point{X: 100, Y: 100})
	}
	if b.Glow() != 1.0 {
		t.Errorf("hovered glow = %v, want 1", b.Glow())
	}
	// ramps back off the button and clamps at 0
	for i := 0; i < 100; i++ {
		b.Update(0.016, image.Point{})
	}
	if b.Glow() != 0.0 {
		t.Errorf("idle glow = %v, want 0", b.Glow())
	}

	b.Latched = true
	if b.Glow() != 1.0 {
		t.Errorf("latched glow = %v, want 1", b.Glow())
	}

	b.Hidden = true
	if b.Contains(image.Point{X: 100, Y: 100}) {
		t.Error("hidden button should not hit-test")
	}
}

func TestFaceSetFallback(t *testing.T) {
	if _, err := NewFaceSet([]byte("not a font")); err == nil {
		t.Fatal("garbage font data should fail to parse")
	}
}

func TestWrapPixelsLongText(t *testing.T) {
	face := BasicFace()
	text := strings.Repeat("a", 25)
	lines := WrapPixels(face, text, 7*10)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != strings.Repeat("a", 10) || lines[2] != strings.Repeat("a", 5) {
		t.Errorf("unexpected wrap: %v", lines)
	}
}
