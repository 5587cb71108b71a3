package scene

import (
	"fmt"
	"image"
	"image/color"

	"github.com/FoolCoder-code/Nitro-Express/save"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

// SaveSelectMode tells the slot list whether a click writes or reads.
type SaveSelectMode int

const (
	SaveSelectSave SaveSelectMode = iota
	SaveSelectLoad
)

const (
	slotFontPx  = 26
	slotRowGap  = 64
	slotColumns = 2
)

// SaveSelectScene lists the save slots. In save mode a click snapshots
// the running dialogue scene into the slot; in load mode it restores the
// slot and switches to the restored dialogue scene.
type SaveSelectScene struct {
	sceneCommon
	mode  SaveSelectMode
	metas []*save.Meta

	slots   []*view.GlowButton
	btnBack *view.GlowButton
}

func NewSaveSelectScene(m *Manager, mode SaveSelectMode) *SaveSelectScene {
	s := &SaveSelectScene{
		sceneCommon: newSceneCommon(SceneNameSaveSelect, m),
		mode:        mode,
	}
	s.rebuild()
	return s
}

func (s *SaveSelectScene) Exclusive() bool { return true }
func (s *SaveSelectScene) Overlay() bool   { return true }

func (s *SaveSelectScene) rebuild() {
	srv := s.m.Services()
	if srv.Saves != nil {
		s.metas = srv.Saves.ListMeta()
	} else {
		s.metas = make([]*save.Meta, save.MaxSlot)
	}

	face := srv.face(scalePx(s.m, slotFontPx))
	size := s.m.Size()
	gap := scalePx(s.m, slotRowGap)
	rows := (len(s.metas) + slotColumns - 1) / slotColumns
	top := size.Y/2 - gap*(rows-1)/2

	s.slots = s.slots[:0]
	for i := range s.metas {
		col := i / rows
		row := i % rows
		x := size.X/2 + (col*2-1)*scalePx(s.m, 330)
		center := image.Point{X: x, Y: top + row*gap}
		s.slots = append(s.slots, view.NewGlowButton(s.slotLabel(i), face, center))
	}
	s.btnBack = view.NewGlowButton(srv.text("BACK", "saveSelectScene", "buttons", "back"),
		face, image.Point{X: size.X / 2, Y: top + rows*gap})
}

func (s *SaveSelectScene) slotLabel(i int) string {
	meta := s.metas[i]
	if meta == nil {
		return fmt.Sprintf("%02d  %s", i+1, s.m.Services().text("- empty -", "saveSelectScene", "empty_slot"))
	}
	return fmt.Sprintf("%02d  %s  %s", i+1, meta.SavedAt.Format("2006-01-02 15:04"), meta.Comment)
}

func (s *SaveSelectScene) Handle(ev *EventState) bool {
	if ev.KeyPressed(KeyEscape) {
		s.m.Pop()
		return true
	}
	if ev.MousePressed(MouseRight) {
		for i, b := range s.slots {
			if b.Contains(ev.MousePos) {
				s.deleteSlot(i + 1)
				break
			}
		}
		return true
	}
	if !ev.MousePressed(MouseLeft) {
		return true
	}
	if s.btnBack.Contains(ev.MousePos) {
		s.m.Pop()
		return true
	}
	for i, b := range s.slots {
		if b.Contains(ev.MousePos) {
			s.pickSlot(i + 1)
			break
		}
	}
	return true
}

func (s *SaveSelectScene) deleteSlot(slot int) {
	srv := s.m.Services()
	if srv.Saves == nil {
		return
	}
	if err := srv.Saves.Delete(slot); err != nil {
		log.Infof("scene: %v", err)
		return
	}
	s.rebuild()
}

func (s *SaveSelectScene) pickSlot(slot int) {
	switch s.mode {
	case SaveSelectSave:
		s.saveTo(slot)
	case SaveSelectLoad:
		s.loadFrom(slot)
	}
}

func (s *SaveSelectScene) saveTo(slot int) {
	srv := s.m.Services()
	if srv.Saves == nil {
		return
	}
	host, ok := s.m.SceneByName(SceneNameDialogue)
	if !ok {
		log.Infof("scene: nothing to save, no dialogue running")
		return
	}
	d := host.(*DialogueScene)
	if err := srv.Saves.Save(slot, d.SlotComment(), d.Snapshot()); err != nil {
		log.Infof("scene: %v", err)
		return
	}
	s.rebuild()
}

func (s *SaveSelectScene) loadFrom(slot int) {
	srv := s.m.Services()
	if srv.Saves == nil || s.metas[slot-1] == nil {
		return
	}
	_, data, err := srv.Saves.Load(slot)
	if err != nil {
		log.Infof("scene: %v", err)
		return
	}
	d, err := NewDialogueSceneAt(s.m, data.SceneID, data.StepIdx)
	if err != nil {
		log.Infof("scene: restore slot %d: %v", slot, err)
		return
	}
	s.m.Flags().Restore(data.Flags)
	s.m.Switch(d)
}

func (s *SaveSelectScene) Update(dt float64) error {
	mouse := s.m.Events().MousePos
	for _, b := range append(append([]*view.GlowButton{}, s.slots...), s.btnBack) {
		b.Update(dt, mouse)
	}
	return nil
}

func (s *SaveSelectScene) Draw(dst *image.RGBA) {
	view.FillRect(dst, dst.Bounds(), color.RGBA{A: 210})

	srv := s.m.Services()
	size := s.m.Size()
	face := srv.face(scalePx(s.m, slotFontPx+6))
	header := srv.text("LOAD", "saveSelectScene", "load")
	if s.mode == SaveSelectSave {
		header = srv.text("SAVE", "saveSelectScene", "save")
	}
	view.DrawTextCenter(dst, face, header, image.Point{X: size.X / 2, Y: scalePx(s.m, 90)}, color.White)

	for _, b := range s.slots {
		b.Draw(dst)
	}
	s.btnBack.Draw(dst)
}

func (s *SaveSelectScene) ReloadLocale()      { s.rebuild() }
func (s *SaveSelectScene) Resize(image.Point) { s.rebuild() }
