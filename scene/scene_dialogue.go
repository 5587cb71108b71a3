package scene

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/FoolCoder-code/Nitro-Express/asset"
	"github.com/FoolCoder-code/Nitro-Express/effect"
	"github.com/FoolCoder-code/Nitro-Express/save"
	"github.com/FoolCoder-code/Nitro-Express/script"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

// stage layout in design-space pixels, scaled by the frame width.
const (
	dlgWindowHeightFrac = 0.34
	dlgTextMarginX      = 160
	dlgNameFontPx       = 34
	dlgTitleFontPx      = 22
	dlgBodyFontPx       = 30
	dlgButtonFontPx     = 24

	// brightness of sprites outside the highlight.
	dimFactor = 0.4
)

// offscreen parks a character the script has not placed yet.
var offscreen = effect.Point{X: -100, Y: -100}

// characterState is the one per-character record on stage: sprite
// surface, normalized position (possibly animated) and highlight flag,
// kept in lock step so stage state cannot desynchronize.
type characterState struct {
	sprite      *image.RGBA
	dim         *image.RGBA // lazily darkened copy of sprite
	pos         effect.Point
	anim        *effect.Animator
	highlighted bool
	layer       int
}

// DialogueScene executes one authored script: it steps through actions,
// blocks on text reveal and prompts, and owns the stage effects.
type DialogueScene struct {
	sceneCommon
	sceneID string
	script  *script.Script

	stepIdx     int
	actionIdx   int
	lastApplied int // highest applied action index inside the current step
	finished    bool
	switching   bool

	tw    *effect.Typewriter
	shake *effect.Shake

	background *image.RGBA
	bgPrev     *image.RGBA
	bgFade     *effect.Fade

	chars       map[string]*characterState
	spriteCache map[string]*image.RGBA

	speakerName  string
	speakerTitle string

	continueClicked bool
	keyHeld         bool

	autoMode  bool
	skipMode  bool
	hideUI    bool
	moreOpen  bool
	autoTimer float64

	awaited []string

	btnLog, btnAuto, btnMore, btnHide, btnSkip *view.GlowButton
}

// NewDialogueScene loads the script for sceneID and builds the scene
// positioned at its first step.
func NewDialogueScene(m *Manager, sceneID string) (*DialogueScene, error) {
	return NewDialogueSceneAt(m, sceneID, 0)
}

// NewDialogueSceneAt builds the scene positioned at a later step, which
// loading a save slot uses. stepIdx past the end makes a finished scene.
func NewDialogueSceneAt(m *Manager, sceneID string, stepIdx int) (*DialogueScene, error) {
	scr, err := m.Services().Scripts.Script(sceneID)
	if err != nil {
		return nil, fmt.Errorf("scene: load script %q: %w", sceneID, err)
	}
	return newDialogueScene(m, sceneID, scr, stepIdx), nil
}

func newDialogueScene(m *Manager, sceneID string, scr *script.Script, stepIdx int) *DialogueScene {
	if stepIdx < 0 {
		stepIdx = 0
	}
	d := &DialogueScene{
		sceneCommon: newSceneCommon(SceneNameDialogue, m),
		sceneID:     sceneID,
		script:      scr,
		stepIdx:     stepIdx,
		lastApplied: -1,
		tw:          effect.NewTypewriter("", m.Services().Config.CPSScale()),
		shake:       effect.NewShake(nil),
		chars:       map[string]*characterState{},
		spriteCache: map[string]*image.RGBA{},
		awaited:     []string{SceneNamePrompt, SceneNameDialogueLog},
	}
	d.buildButtons()
	return d
}

// SceneID returns the id the script was loaded under.
func (d *DialogueScene) SceneID() string { return d.sceneID }

// StepIdx returns the current step position.
func (d *DialogueScene) StepIdx() int { return d.stepIdx }

// Finished reports the terminal state: the script ran out of steps.
// Further updates are no-ops.
func (d *DialogueScene) Finished() bool { return d.finished }

// Snapshot captures the restorable position for a save slot.
func (d *DialogueScene) Snapshot() *save.Data {
	return &save.Data{
		SceneID: d.sceneID,
		StepIdx: d.stepIdx,
		Flags:   d.m.Flags().Snapshot(),
	}
}

// SlotComment is the human-readable line a save slot shows.
func (d *DialogueScene) SlotComment() string {
	if d.stepIdx < len(d.script.Steps) {
		return fmt.Sprintf("%s / %s", d.sceneID, d.script.Steps[d.stepIdx].ID)
	}
	return d.sceneID
}

func (d *DialogueScene) Enter() {
	for _, c := range d.script.Characters {
		st, err := d.stageCharacter(c.ID)
		if err != nil {
			log.Infof("scene: %v", err)
			continue
		}
		st.pos = offscreen
	}
	d.refreshBackground()
	log.Debugf("scene: dialogue %s entered at step %d", d.sceneID, d.stepIdx)
}

func (d *DialogueScene) Leave() {
	d.persistReadFlags()
}

func (d *DialogueScene) persistReadFlags() {
	srv := d.m.Services()
	if srv.Saves == nil || srv.ReadFlags == nil {
		return
	}
	if err := srv.Saves.StoreReadFlags(srv.ReadFlags); err != nil {
		log.Infof("scene: %v", err)
	}
}

// stageCharacter returns the stage record for id, creating it from the
// roster when absent. Unknown ids are content errors.
func (d *DialogueScene) stageCharacter(id string) (*characterState, error) {
	if st, ok := d.chars[id]; ok {
		return st, nil
	}
	c, ok := d.script.CharacterByID(id)
	if !ok {
		return nil, script.Contentf("character %q is not in the roster", id)
	}
	sprite, err := d.loadSprite(c)
	if err != nil {
		return nil, err
	}
	st := &characterState{sprite: sprite, pos: offscreen, layer: c.Layer}
	d.chars[id] = st
	return st, nil
}

func (d *DialogueScene) loadSprite(c script.Character) (*image.RGBA, error) {
	if cached, ok := d.spriteCache[c.ID]; ok {
		return cached, nil
	}
	img, err := d.m.Services().Images.Sprite(c.Sprite)
	if err != nil {
		return nil, fmt.Errorf("scene: sprite of %q: %w", c.ID, err)
	}
	scaled := asset.ResizeScale(img, c.Scale*d.m.UniformScale())
	d.spriteCache[c.ID] = scaled
	return scaled, nil
}

func (d *DialogueScene) buildButtons() {
	srv := d.m.Services()
	face := srv.face(d.px(dlgButtonFontPx))
	size := d.m.Size()
	y := size.Y - d.px(40)
	d.btnLog = view.NewGlowButton(srv.text("LOG", "dialogueScene", "buttons", "log"), face, image.Point{X: size.X - d.px(420), Y: y})
	d.btnAuto = view.NewGlowButton(srv.text("AUTO", "dialogueScene", "buttons", "auto"), face, image.Point{X: size.X - d.px(300), Y: y})
	d.btnMore = view.NewGlowButton(srv.text("MORE", "dialogueScene", "buttons", "more"), face, image.Point{X: size.X - d.px(180), Y: y})
	d.btnHide = view.NewGlowButton(srv.text("HIDE", "dialogueScene", "buttons", "hide"), face, image.Point{X: size.X - d.px(180), Y: y - d.px(120)})
	d.btnSkip = view.NewGlowButton(srv.text("SKIP", "dialogueScene", "buttons", "skip"), face, image.Point{X: size.X - d.px(180), Y: y - d.px(60)})
	d.btnAuto.Latched = d.autoMode
	d.btnSkip.Latched = d.skipMode
	d.syncButtonVisibility()
}

func (d *DialogueScene) syncButtonVisibility() {
	d.btnHide.Hidden = !d.moreOpen
	d.btnSkip.Hidden = !d.moreOpen
}

func (d *DialogueScene) buttons() []*view.GlowButton {
	return []*view.GlowButton{d.btnLog, d.btnAuto, d.btnMore, d.btnHide, d.btnSkip}
}

// px converts a design-space length to frame pixels.
func (d *DialogueScene) px(design int) int {
	v := int(float64(design) * d.m.UniformScale())
	if v < 1 {
		v = 1
	}
	return v
}

// stagePos converts a normalized center-origin position to frame pixels.
func (d *DialogueScene) stagePos(p effect.Point) image.Point {
	size := d.m.Size()
	return image.Point{
		X: int(float64(size.X) / 2 * (1 + p.X)),
		Y: int(float64(size.Y) / 2 * (1 + p.Y)),
	}
}

func (d *DialogueScene) Handle(ev *EventState) bool {
	if ev.KeyReleased(KeySpace) || ev.KeyReleased(KeyEnter) {
		d.keyHeld = false
	}
	advanceKey := (ev.KeyPressed(KeySpace) || ev.KeyPressed(KeyEnter)) && !d.keyHeld
	if advanceKey {
		d.keyHeld = true
	}
	click := ev.MousePressed(MouseLeft)

	// any input first brings the hidden UI back, nothing else
	if d.hideUI {
		if click || advanceKey {
			d.hideUI = false
		}
		return d.Overlay()
	}

	if click {
		for _, b := range d.buttons() {
			if b.Contains(ev.MousePos) {
				d.pressButton(b)
				return true
			}
		}
		d.requestContinue()
	}
	if advanceKey {
		d.requestContinue()
	}
	if ev.KeyPressed(KeyEscape) {
		d.m.Push(NewSettingsScene(d.m))
		return true
	}
	return d.Overlay()
}

func (d *DialogueScene) pressButton(b *view.GlowButton) {
	switch b {
	case d.btnLog:
		d.m.Push(NewDialogueLogScene(d.m))
	case d.btnAuto:
		d.autoMode = !d.autoMode
		d.autoTimer = 0
		d.btnAuto.Latched = d.autoMode
	case d.btnMore:
		d.moreOpen = !d.moreOpen
		d.syncButtonVisibility()
	case d.btnHide:
		d.hideUI = true
		d.moreOpen = false
		d.syncButtonVisibility()
	case d.btnSkip:
		d.skipMode = !d.skipMode
		d.btnSkip.Latched = d.skipMode
	}
}

// requestContinue is the shared advance input: an unfinished reveal is
// completed first, a finished one arms the continue signal.
func (d *DialogueScene) requestContinue() {
	if !d.tw.Finished() {
		d.tw.Skip()
		return
	}
	d.continueClicked = true
}

func (d *DialogueScene) Update(dt float64) error {
	srv := d.m.Services()
	d.tw.SetScale(srv.Config.CPSScale())

	d.tw.Update(dt)
	d.shake.Update(dt)
	if d.bgFade != nil {
		d.bgFade.Update(dt)
		if d.bgFade.Finished() {
			d.bgFade = nil
			d.bgPrev = nil
		}
	}
	for _, st := range d.chars {
		if st.anim == nil {
			continue
		}
		st.anim.Update(dt)
		st.pos = st.anim.Curr()
		if st.anim.Finished() {
			st.anim = nil
		}
	}
	if !d.hideUI {
		for _, b := range d.buttons() {
			b.Update(dt, d.m.Events().MousePos)
		}
	}

	if d.autoMode && d.tw.Finished() && !d.continueClicked && !d.hasAwaitedOverlay() {
		d.autoTimer += dt
		if d.autoTimer >= srv.Config.AutoDelay() {
			d.autoTimer = 0
			d.continueClicked = true
		}
	} else if !d.tw.Finished() {
		d.autoTimer = 0
	}

	err := d.advance()
	d.continueClicked = false
	return err
}

// hasAwaitedOverlay reports whether any overlay the engine waits on is
// on the stack; auto mode pauses behind those.
func (d *DialogueScene) hasAwaitedOverlay() bool {
	for _, name := range d.awaited {
		if d.m.Has(name) {
			return true
		}
	}
	return false
}

// advance pushes script execution as far as this frame allows. A step
// finishing mid-call rolls directly into the next step.
func (d *DialogueScene) advance() error {
	if d.finished || d.switching {
		return nil
	}
	for {
		if d.stepIdx >= len(d.script.Steps) {
			d.finished = true
			log.Debugf("scene: dialogue %s finished", d.sceneID)
			return nil
		}
		if d.skipMode && !d.skippable() {
			d.skipMode = false
			d.btnSkip.Latched = false
		}
		stepDone, err := d.executeStep(d.script.Steps[d.stepIdx])
		if err != nil {
			return err
		}
		if !stepDone {
			return nil
		}
		d.markRead()
		d.stepIdx++
		d.actionIdx = 0
		d.lastApplied = -1
	}
}

// skippable applies the read-text-only rule to the current step.
func (d *DialogueScene) skippable() bool {
	srv := d.m.Services()
	if !srv.Config.SkipRead || srv.ReadFlags == nil {
		return true
	}
	return srv.ReadFlags.IsRead(d.sceneID, d.stepIdx)
}

func (d *DialogueScene) markRead() {
	if rf := d.m.Services().ReadFlags; rf != nil {
		rf.Mark(d.sceneID, d.stepIdx)
	}
}

// executeStep runs actions from the current position until the step
// completes (true) or a blocking action holds it (false). Every action
// applies exactly once per step pass, tracked by lastApplied.
func (d *DialogueScene) executeStep(step script.Step) (bool, error) {
	for d.actionIdx < len(step.Actions) {
		a := step.Actions[d.actionIdx]

		if d.skipMode {
			if a.Kind() == script.KindPrompt {
				// skip halts right at the branch point
				d.skipMode = false
				d.btnSkip.Latched = false
				continue
			}
			if d.lastApplied < d.actionIdx {
				if err := d.applyAction(a); err != nil {
					return false, err
				}
				d.lastApplied = d.actionIdx
			}
			if a.Kind() == script.KindShowText {
				d.tw.Skip()
			}
			if d.switching {
				return false, nil
			}
			d.actionIdx++
			continue
		}

		if script.Blocking(a) {
			if d.lastApplied < d.actionIdx {
				if err := d.applyAction(a); err != nil {
					return false, err
				}
				d.lastApplied = d.actionIdx
				return false, nil
			}
			if !d.tw.Finished() {
				return false, nil
			}
			if a.Kind() == script.KindPrompt && d.m.Has(SceneNamePrompt) {
				return false, nil
			}
			if !d.continueClicked {
				return false, nil
			}
			d.continueClicked = false
			d.actionIdx++
			continue
		}

		if d.lastApplied < d.actionIdx {
			if err := d.applyAction(a); err != nil {
				return false, err
			}
			d.lastApplied = d.actionIdx
		}
		if d.switching {
			return false, nil
		}
		d.actionIdx++
	}
	return true, nil
}

func (d *DialogueScene) applyAction(a script.Action) error {
	switch a := a.(type) {
	case script.ShowText:
		d.speakerName = a.SpeakerName
		d.speakerTitle = a.SpeakerTitle
		d.tw.Reset(a.Text)
		d.autoTimer = 0
		d.m.History().Add(a.SpeakerName, a.Text)

	case script.SetBackground:
		return d.applyBackground(a)

	case script.PlayBGM:
		log.Debugf("scene: bgm %q ignored, no audio backend", a.Track)
	case script.PlaySFX:
		log.Debugf("scene: sfx %q ignored, no audio backend", a.Name)

	case script.ShowCharacter:
		st, err := d.stageCharacter(a.CharacterID)
		if err != nil {
			return err
		}
		st.pos = effect.Point{X: a.X, Y: a.Y}
		st.anim = nil

	case script.MoveCharacter:
		st, ok := d.chars[a.CharacterID]
		if !ok {
			return script.Contentf("move_character: %q is not on stage", a.CharacterID)
		}
		easing, err := effect.ParseEasing(a.Easing)
		if err != nil {
			return err
		}
		from := effect.Point{X: a.FromX, Y: a.FromY}
		to := effect.Point{X: a.ToX, Y: a.ToY}
		st.pos = from
		st.anim = effect.NewAnimator(from, to, a.Duration, easing)

	case script.HideCharacter:
		if _, ok := d.chars[a.CharacterID]; !ok {
			return script.Contentf("hide_character: %q is not on stage", a.CharacterID)
		}
		delete(d.chars, a.CharacterID)

	case script.SetHighlight:
		if a.CharacterID != "" {
			if _, ok := d.chars[a.CharacterID]; !ok {
				return script.Contentf("set_highlight: %q is not on stage", a.CharacterID)
			}
		}
		if a.DimOthers {
			for _, st := range d.chars {
				st.highlighted = false
			}
		}
		if st, ok := d.chars[a.CharacterID]; ok {
			st.highlighted = true
		}

	case script.ScreenShake:
		d.shake.Start(a.Duration, a.Intensity, a.Frequency, a.Infinite)

	case script.Prompt:
		d.m.Push(NewPromptScene(d.m, a))

	case script.ChangeScene:
		return d.applyChangeScene(a)

	default:
		return script.Contentf("unhandled action kind %q", a.Kind())
	}
	return nil
}

func (d *DialogueScene) applyBackground(a script.SetBackground) error {
	next, err := d.loadBackground(a)
	if err != nil {
		return err
	}
	if a.Transition != nil && a.Transition.Type == "fade" && d.background != nil {
		easing, err := effect.ParseEasing(a.Transition.Easing)
		if err != nil {
			return err
		}
		d.bgPrev = d.background
		d.bgFade = effect.NewFade(a.Transition.Duration, easing)
	} else {
		d.bgPrev = nil
		d.bgFade = nil
	}
	d.background = next
	return nil
}

func (d *DialogueScene) loadBackground(a script.SetBackground) (*image.RGBA, error) {
	img, err := d.m.Services().Images.Illustration(a.File)
	if err != nil {
		return nil, err
	}
	size := d.m.Size()
	scaled := asset.Resize(img, size.X, size.Y)
	if a.Blur > 0 {
		scaled = asset.Blur(scaled, d.px(a.Blur))
	}
	return scaled, nil
}

// refreshBackground re-resolves the active background from the script,
// used on enter, resume and resize. Transitions do not replay.
func (d *DialogueScene) refreshBackground() {
	d.bgPrev = nil
	d.bgFade = nil
	d.background = nil
	// lastApplied < 0 means nothing of the current step applied yet;
	// LatestBackground then scans prior steps only
	bg, ok := d.script.LatestBackground(d.stepIdx, d.lastApplied)
	if !ok {
		return
	}
	bg.Transition = nil
	next, err := d.loadBackground(bg)
	if err != nil {
		log.Infof("scene: background %q: %v", bg.File, err)
		return
	}
	d.background = next
}

func (d *DialogueScene) applyChangeScene(a script.ChangeScene) error {
	for _, target := range a.Targets {
		if !d.m.Flags().Matches(target.RequiredFlags) {
			continue
		}
		next, err := NewDialogueScene(d.m, target.SceneID)
		if err != nil {
			return err
		}
		d.switching = true
		d.m.Switch(next)
		return nil
	}
	// no target matches: fall through to the next action
	log.Debugf("scene: change_dialogue_scene matched no target, continuing")
	return nil
}

func (d *DialogueScene) Draw(dst *image.RGBA) {
	off := d.shakeOffset()

	if d.bgPrev != nil && d.bgFade != nil {
		view.Blit(dst, d.bgPrev, off)
		view.BlitAlpha(dst, d.background, off, d.bgFade.Alpha())
	} else if d.background != nil {
		view.Blit(dst, d.background, off)
	} else {
		view.Fill(dst, color.Black)
	}

	for _, id := range d.drawOrder() {
		st := d.chars[id]
		img := st.sprite
		if !st.highlighted {
			if st.dim == nil {
				st.dim = view.DarkenImage(st.sprite, dimFactor)
			}
			img = st.dim
		}
		view.BlitCenter(dst, img, d.stagePos(st.pos).Add(off))
	}

	if d.hideUI {
		return
	}
	d.drawWindow(dst)
}

func (d *DialogueScene) shakeOffset() image.Point {
	if !d.shake.Active() {
		return image.Point{}
	}
	p := d.shake.Offset()
	s := d.m.UniformScale()
	return image.Point{X: int(p.X * s), Y: int(p.Y * s)}
}

// drawOrder sorts staged characters by layer, then id for a stable tie.
func (d *DialogueScene) drawOrder() []string {
	ids := make([]string, 0, len(d.chars))
	for id := range d.chars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := d.chars[ids[i]], d.chars[ids[j]]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (d *DialogueScene) drawWindow(dst *image.RGBA) {
	srv := d.m.Services()
	size := d.m.Size()
	winTop := size.Y - int(float64(size.Y)*dlgWindowHeightFrac)
	view.BottomGradient(dst, image.Rect(0, winTop, size.X, size.Y), 210)

	marginX := d.px(dlgTextMarginX)
	nameFace := srv.face(d.px(dlgNameFontPx))
	bodyFace := srv.face(d.px(dlgBodyFontPx))

	y := winTop + d.px(24)
	if d.speakerName != "" {
		view.DrawText(dst, nameFace, d.speakerName, image.Point{X: marginX, Y: y}, color.White)
		if d.speakerTitle != "" {
			titleFace := srv.face(d.px(dlgTitleFontPx))
			x := marginX + view.TextWidth(nameFace, d.speakerName) + d.px(18)
			view.DrawText(dst, titleFace, d.speakerTitle, image.Point{X: x, Y: y + d.px(8)}, color.RGBA{R: 190, G: 190, B: 190, A: 255})
		}
	}
	y += view.LineHeight(nameFace) + d.px(14)

	maxWidth := size.X - 2*marginX
	lineH := view.LineHeight(bodyFace) + d.px(6)
	for _, line := range view.WrapPixels(bodyFace, d.tw.VisibleText(), maxWidth) {
		view.DrawText(dst, bodyFace, line, image.Point{X: marginX, Y: y}, color.White)
		y += lineH
	}

	for _, b := range d.buttons() {
		b.Draw(dst)
	}
}

func (d *DialogueScene) ReloadLocale() {
	d.buildButtons()
}

func (d *DialogueScene) Resize(image.Point) {
	// cached surfaces are sized to the frame, rebuild them all
	d.spriteCache = map[string]*image.RGBA{}
	for id, st := range d.chars {
		c, ok := d.script.CharacterByID(id)
		if !ok {
			continue
		}
		sprite, err := d.loadSprite(c)
		if err != nil {
			log.Infof("scene: %v", err)
			continue
		}
		st.sprite = sprite
		st.dim = nil
	}
	d.refreshBackground()
	d.buildButtons()
}
