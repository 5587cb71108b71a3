package scene

import (
	"image"

	"golang.org/x/image/font"

	"github.com/FoolCoder-code/Nitro-Express/config"
	"github.com/FoolCoder-code/Nitro-Express/save"
	"github.com/FoolCoder-code/Nitro-Express/script"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

// ScriptProvider serves decoded dialogue scripts by scene id.
type ScriptProvider interface {
	Script(id string) (*script.Script, error)
}

// ImageProvider serves decoded backdrop and sprite images.
type ImageProvider interface {
	Illustration(name string) (image.Image, error)
	Sprite(name string) (image.Image, error)
}

// TextProvider serves localized UI text and the font faces of the
// active language.
type TextProvider interface {
	Text(path ...string) (string, error)
	Face(sizePx int) font.Face
}

// Services bundles what the scenes need from the rest of the player.
// Saves and ReadFlags may be nil; the scenes then run without
// persistence.
type Services struct {
	Scripts ScriptProvider
	Images  ImageProvider
	Texts   TextProvider
	Config  *config.Config

	Saves     *save.Repository
	ReadFlags *save.ReadFlags

	// EntryScene is the scene id a new game starts from.
	EntryScene string

	// Languages lists the selectable language codes.
	Languages []string

	// SaveConfig persists Config after the settings screen edits it.
	SaveConfig func() error
	// SetLanguage switches the active locale bundle.
	SetLanguage func(code string) error
}

// text is the tolerant localized text lookup the scenes label UI with.
func (s *Services) text(fallback string, path ...string) string {
	if s.Texts == nil {
		return fallback
	}
	t, err := s.Texts.Text(path...)
	if err != nil {
		return fallback
	}
	return t
}

// face returns a font face of the given pixel size, falling back to the
// builtin bitmap face.
func (s *Services) face(sizePx int) font.Face {
	if s.Texts == nil {
		return view.BasicFace()
	}
	if f := s.Texts.Face(sizePx); f != nil {
		return f
	}
	return view.BasicFace()
}
