package scene

import (
	"fmt"
	"image"
	"image/color"

	"github.com/FoolCoder-code/Nitro-Express/util/log"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

const (
	settingsFontPx    = 30
	settingsRowGap    = 90
	settingsSpeedStep = 10
)

// SettingsScene edits the runtime options: text speed, read-text skip
// rule and language. Changes apply immediately and persist on leave.
type SettingsScene struct {
	sceneCommon
	dirty bool

	btnSpeedDown, btnSpeedUp *view.GlowButton
	btnSkipRead, btnLanguage *view.GlowButton
	btnBack                  *view.GlowButton
}

func NewSettingsScene(m *Manager) *SettingsScene {
	s := &SettingsScene{sceneCommon: newSceneCommon(SceneNameSettings, m)}
	s.rebuild()
	return s
}

func (s *SettingsScene) Exclusive() bool { return true }
func (s *SettingsScene) Overlay() bool   { return true }

func (s *SettingsScene) rebuild() {
	srv := s.m.Services()
	face := srv.face(scalePx(s.m, settingsFontPx))
	size := s.m.Size()
	gap := scalePx(s.m, settingsRowGap)
	x := size.X / 2
	y := size.Y/2 - gap

	s.btnSpeedDown = view.NewGlowButton("-", face, image.Point{X: x - scalePx(s.m, 220), Y: y})
	s.btnSpeedUp = view.NewGlowButton("+", face, image.Point{X: x + scalePx(s.m, 220), Y: y})
	s.btnSkipRead = view.NewGlowButton(s.skipReadLabel(), face, image.Point{X: x, Y: y + gap})
	s.btnLanguage = view.NewGlowButton(s.languageLabel(), face, image.Point{X: x, Y: y + 2*gap})
	s.btnBack = view.NewGlowButton(srv.text("BACK", "settingsScene", "buttons", "back"), face, image.Point{X: x, Y: y + 3*gap})
}

func (s *SettingsScene) skipReadLabel() string {
	srv := s.m.Services()
	if srv.Config.SkipRead {
		return srv.text("Skip: read text only", "settingsScene", "skip_read_on")
	}
	return srv.text("Skip: all text", "settingsScene", "skip_read_off")
}

func (s *SettingsScene) languageLabel() string {
	return fmt.Sprintf("%s: %s",
		s.m.Services().text("Language", "settingsScene", "language"),
		s.m.Services().Config.Language)
}

func (s *SettingsScene) buttons() []*view.GlowButton {
	return []*view.GlowButton{s.btnSpeedDown, s.btnSpeedUp, s.btnSkipRead, s.btnLanguage, s.btnBack}
}

func (s *SettingsScene) Handle(ev *EventState) bool {
	if ev.KeyPressed(KeyEscape) {
		s.m.Pop()
		return true
	}
	if !ev.MousePressed(MouseLeft) {
		return true
	}
	srv := s.m.Services()
	switch {
	case s.btnSpeedDown.Contains(ev.MousePos):
		srv.Config.TextSpeed -= settingsSpeedStep
		srv.Config.Normalize()
		s.dirty = true
	case s.btnSpeedUp.Contains(ev.MousePos):
		srv.Config.TextSpeed += settingsSpeedStep
		srv.Config.Normalize()
		s.dirty = true
	case s.btnSkipRead.Contains(ev.MousePos):
		srv.Config.SkipRead = !srv.Config.SkipRead
		s.btnSkipRead.SetLabel(s.skipReadLabel())
		s.dirty = true
	case s.btnLanguage.Contains(ev.MousePos):
		s.cycleLanguage()
	case s.btnBack.Contains(ev.MousePos):
		s.m.Pop()
	}
	return true
}

func (s *SettingsScene) cycleLanguage() {
	srv := s.m.Services()
	langs := srv.Languages
	if len(langs) < 2 || srv.SetLanguage == nil {
		return
	}
	next := langs[0]
	for i, code := range langs {
		if code == srv.Config.Language {
			next = langs[(i+1)%len(langs)]
			break
		}
	}
	if err := srv.SetLanguage(next); err != nil {
		log.Infof("scene: language switch to %s: %v", next, err)
		return
	}
	srv.Config.Language = next
	s.btnLanguage.SetLabel(s.languageLabel())
	s.dirty = true
	s.m.MarkLocaleDirty()
}

func (s *SettingsScene) Leave() {
	if !s.dirty {
		return
	}
	if saveConf := s.m.Services().SaveConfig; saveConf != nil {
		if err := saveConf(); err != nil {
			log.Infof("scene: persist settings: %v", err)
		}
	}
}

func (s *SettingsScene) Update(dt float64) error {
	mouse := s.m.Events().MousePos
	for _, b := range s.buttons() {
		b.Update(dt, mouse)
	}
	return nil
}

func (s *SettingsScene) Draw(dst *image.RGBA) {
	view.FillRect(dst, dst.Bounds(), color.RGBA{A: 200})

	srv := s.m.Services()
	size := s.m.Size()
	face := srv.face(scalePx(s.m, settingsFontPx))
	gap := scalePx(s.m, settingsRowGap)
	y := size.Y/2 - gap
	speed := fmt.Sprintf("%s: %d",
		srv.text("Text speed", "settingsScene", "text_speed"), srv.Config.TextSpeed)
	view.DrawTextCenter(dst, face, speed, image.Point{X: size.X / 2, Y: y}, color.White)

	for _, b := range s.buttons() {
		b.Draw(dst)
	}
}

func (s *SettingsScene) ReloadLocale()      { s.rebuild() }
func (s *SettingsScene) Resize(image.Point) { s.rebuild() }
