package scene

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"

	"github.com/FoolCoder-code/Nitro-Express/config"
	"github.com/FoolCoder-code/Nitro-Express/script"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

// In-memory service stubs for the scene tests.

type stubScripts map[string]*script.Script

func (s stubScripts) Script(id string) (*script.Script, error) {
	scr, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("no script %q", id)
	}
	return scr, nil
}

// stubImages serves uniform color images and counts the loads, so tests
// can assert apply-once behavior.
type stubImages struct {
	IllustrationLoads map[string]int
	SpriteLoads       map[string]int
}

func newStubImages() *stubImages {
	return &stubImages{
		IllustrationLoads: map[string]int{},
		SpriteLoads:       map[string]int{},
	}
}

func uniformImage(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func (s *stubImages) Illustration(name string) (image.Image, error) {
	if strings.HasPrefix(name, "missing") {
		return nil, fmt.Errorf("no illustration %q", name)
	}
	s.IllustrationLoads[name]++
	return uniformImage(color.RGBA{R: 90, G: 90, B: 120, A: 255}), nil
}

func (s *stubImages) Sprite(name string) (image.Image, error) {
	if strings.HasPrefix(name, "missing") {
		return nil, fmt.Errorf("no sprite %q", name)
	}
	s.SpriteLoads[name]++
	return uniformImage(color.RGBA{G: 200, A: 255}), nil
}

// stubTexts echoes the lookup path and serves the builtin face.
type stubTexts struct{}

func (stubTexts) Text(path ...string) (string, error) {
	return strings.Join(path, "."), nil
}

func (stubTexts) Face(int) font.Face { return view.BasicFace() }

func newTestServices() (*Services, *stubImages) {
	images := newStubImages()
	return &Services{
		Scripts:    stubScripts{},
		Images:     images,
		Texts:      stubTexts{},
		Config:     config.Default(),
		EntryScene: "prologue",
	}, images
}

func newTestManager() (*Manager, *stubImages) {
	srv, images := newTestServices()
	return NewManager(srv, image.Point{X: 320, Y: 180}), images
}
