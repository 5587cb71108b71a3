package view

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/FoolCoder-code/Nitro-Express/filesystem"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

const fontDPI = 72

// FaceSet builds font.Faces at requested pixel sizes from one parsed
// font file, caching each size. The locale bundle names the file, since
// the glyph coverage depends on the language.
type FaceSet struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// NewFaceSet parses TTF or OTF bytes.
func NewFaceSet(data []byte) (*FaceSet, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("view: unparsable font: %w", err)
	}
	return &FaceSet{font: f, faces: map[int]font.Face{}}, nil
}

// LoadFaceSet reads and parses a font file through fs.
func LoadFaceSet(fs filesystem.Loader, path string) (*FaceSet, error) {
	r, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("view: open font %s: %w", path, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("view: read font %s: %w", path, err)
	}
	return NewFaceSet(data)
}

// Face returns a face of the given pixel size. A face that can not be
// built falls back to the builtin bitmap face instead of failing a
// frame.
func (s *FaceSet) Face(sizePx int) font.Face {
	if sizePx < 1 {
		sizePx = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if face, ok := s.faces[sizePx]; ok {
		return face
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Infof("view: can not build %dpx face: %v", sizePx, err)
		face = BasicFace()
	}
	s.faces[sizePx] = face
	return face
}

// BasicFace returns the builtin fixed bitmap face. The last resort when
// no font file is reachable.
func BasicFace() font.Face {
	return basicfont.Face7x13
}
