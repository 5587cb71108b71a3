package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// decodeImage sniffs the encoded format from the content; pak entry
// names carry no extension.
func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("asset: undecodable image: %w", err)
	}
	return img, nil
}

// ToRGBA returns src as *image.RGBA, copying only when needed.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	return rgba
}

// Resize scales src to w x h with bi-linear filtering.
func Resize(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// ResizeScale scales src uniformly by factor.
func ResizeScale(src image.Image, factor float64) *image.RGBA {
	bounds := src.Bounds()
	w := int(float64(bounds.Dx()) * factor)
	h := int(float64(bounds.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Resize(src, w, h)
}

// Blur approximates a gaussian blur with three box blur passes, which
// is close enough for a defocused backdrop and much cheaper.
func Blur(src *image.RGBA, radius int) *image.RGBA {
	if radius <= 0 {
		return src
	}
	tmp := image.NewRGBA(src.Bounds())
	out := ToRGBA(src)
	for i := 0; i < 3; i++ {
		boxBlurH(out, tmp, radius)
		boxBlurV(tmp, out, radius)
	}
	return out
}

func boxBlurH(src, dst *image.RGBA, radius int) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	winSize := 2*radius + 1
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		var sum [4]int
		for x := -radius; x <= radius; x++ {
			cx := clampInt(x, 0, w-1)
			for c := 0; c < 4; c++ {
				sum[c] += int(row[cx*4+c])
			}
		}
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			for c := 0; c < 4; c++ {
				drow[x*4+c] = uint8(sum[c] / winSize)
			}
			leave := clampInt(x-radius, 0, w-1)
			enter := clampInt(x+radius+1, 0, w-1)
			for c := 0; c < 4; c++ {
				sum[c] += int(row[enter*4+c]) - int(row[leave*4+c])
			}
		}
	}
}

func boxBlurV(src, dst *image.RGBA, radius int) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	winSize := 2*radius + 1
	for x := 0; x < w; x++ {
		var sum [4]int
		for y := -radius; y <= radius; y++ {
			cy := clampInt(y, 0, h-1)
			for c := 0; c < 4; c++ {
				sum[c] += int(src.Pix[cy*src.Stride+x*4+c])
			}
		}
		for y := 0; y < h; y++ {
			for c := 0; c < 4; c++ {
				dst.Pix[y*dst.Stride+x*4+c] = uint8(sum[c] / winSize)
			}
			leave := clampInt(y-radius, 0, h-1)
			enter := clampInt(y+radius+1, 0, h-1)
			for c := 0; c < 4; c++ {
				sum[c] += int(src.Pix[enter*src.Stride+x*4+c]) - int(src.Pix[leave*src.Stride+x*4+c])
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
