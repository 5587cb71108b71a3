package scene

import (
	"image"
	"image/color"

	"github.com/FoolCoder-code/Nitro-Express/asset"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

const (
	titleFontPx       = 72
	titleButtonFontPx = 32
	titleButtonGap    = 84

	// the backdrop illustration the title screen tries to use
	titleBackdropName = "title"
)

// TitleScene is the entry screen: start, load, settings, quit.
type TitleScene struct {
	sceneCommon
	background *image.RGBA
	title      string

	btnStart, btnLoad, btnSettings, btnQuit *view.GlowButton
}

func NewTitleScene(m *Manager) *TitleScene {
	t := &TitleScene{sceneCommon: newSceneCommon(SceneNameTitle, m)}
	t.rebuild()
	return t
}

func (t *TitleScene) rebuild() {
	srv := t.m.Services()
	t.title = srv.text("Nitro Express", "titleScene", "title")

	face := srv.face(scalePx(t.m, titleButtonFontPx))
	size := t.m.Size()
	gap := scalePx(t.m, titleButtonGap)
	x := size.X / 2
	y := size.Y/2 + gap
	t.btnStart = view.NewGlowButton(srv.text("START", "titleScene", "buttons", "start"), face, image.Point{X: x, Y: y})
	t.btnLoad = view.NewGlowButton(srv.text("LOAD", "titleScene", "buttons", "load"), face, image.Point{X: x, Y: y + gap})
	t.btnSettings = view.NewGlowButton(srv.text("SETTINGS", "titleScene", "buttons", "settings"), face, image.Point{X: x, Y: y + 2*gap})
	t.btnQuit = view.NewGlowButton(srv.text("QUIT", "titleScene", "buttons", "quit"), face, image.Point{X: x, Y: y + 3*gap})

	t.background = nil
	if srv.Images != nil {
		if img, err := srv.Images.Illustration(titleBackdropName); err == nil {
			t.background = asset.Resize(img, size.X, size.Y)
		}
	}
}

func (t *TitleScene) buttons() []*view.GlowButton {
	return []*view.GlowButton{t.btnStart, t.btnLoad, t.btnSettings, t.btnQuit}
}

func (t *TitleScene) Handle(ev *EventState) bool {
	if !ev.MousePressed(MouseLeft) {
		return false
	}
	switch {
	case t.btnStart.Contains(ev.MousePos):
		t.startGame()
	case t.btnLoad.Contains(ev.MousePos):
		t.m.Push(NewSaveSelectScene(t.m, SaveSelectLoad))
	case t.btnSettings.Contains(ev.MousePos):
		t.m.Push(NewSettingsScene(t.m))
	case t.btnQuit.Contains(ev.MousePos):
		t.m.RequestQuit()
	default:
		return false
	}
	return true
}

func (t *TitleScene) startGame() {
	entry := t.m.Services().EntryScene
	d, err := NewDialogueScene(t.m, entry)
	if err != nil {
		log.Infof("scene: can not start %q: %v", entry, err)
		return
	}
	t.m.Switch(d)
}

func (t *TitleScene) Update(dt float64) error {
	mouse := t.m.Events().MousePos
	for _, b := range t.buttons() {
		b.Update(dt, mouse)
	}
	return nil
}

func (t *TitleScene) Draw(dst *image.RGBA) {
	if t.background != nil {
		view.Blit(dst, t.background, image.Point{})
	} else {
		view.Fill(dst, color.RGBA{R: 12, G: 14, B: 24, A: 255})
	}
	size := t.m.Size()
	titleFace := t.m.Services().face(scalePx(t.m, titleFontPx))
	view.DrawTextCenter(dst, titleFace, t.title, image.Point{X: size.X / 2, Y: size.Y / 3}, color.White)
	for _, b := range t.buttons() {
		b.Draw(dst)
	}
}

func (t *TitleScene) ReloadLocale()      { t.rebuild() }
func (t *TitleScene) Resize(image.Point) { t.rebuild() }
