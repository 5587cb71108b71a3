package scene

import (
	"image"
	"image/color"

	"github.com/FoolCoder-code/Nitro-Express/effect"
	"github.com/FoolCoder-code/Nitro-Express/script"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

const (
	promptMsgFontPx    = 36
	promptOptionFontPx = 30
	promptOptionGap    = 90
	promptFadeInSec    = 0.25
	promptDimAlpha     = 150
)

// PromptScene is the modal branch choice a prompt action pushes. It is
// exclusive: until the player picks an option or cancels, no input
// reaches the dialogue below.
type PromptScene struct {
	sceneCommon
	action   script.Prompt
	buttons  []*view.GlowButton
	selected int
	fadeIn   *effect.Fade
}

func NewPromptScene(m *Manager, action script.Prompt) *PromptScene {
	p := &PromptScene{
		sceneCommon: newSceneCommon(SceneNamePrompt, m),
		action:      action,
		fadeIn:      effect.NewFade(promptFadeInSec, effect.EaseOutCubic),
	}
	p.buildButtons()
	return p
}

func (p *PromptScene) Exclusive() bool { return true }
func (p *PromptScene) Overlay() bool   { return true }

func (p *PromptScene) buildButtons() {
	srv := p.m.Services()
	face := srv.face(scalePx(p.m, promptOptionFontPx))
	size := p.m.Size()
	gap := scalePx(p.m, promptOptionGap)
	top := size.Y/2 - gap*(len(p.action.Options)-1)/2
	p.buttons = p.buttons[:0]
	for i, opt := range p.action.Options {
		center := image.Point{X: size.X / 2, Y: top + i*gap}
		p.buttons = append(p.buttons, view.NewGlowButton(opt.Label, face, center))
	}
}

func (p *PromptScene) Handle(ev *EventState) bool {
	if ev.KeyPressed(KeyUp) {
		p.selected--
		if p.selected < 0 {
			p.selected = len(p.buttons) - 1
		}
	}
	if ev.KeyPressed(KeyDown) {
		p.selected++
		if p.selected >= len(p.buttons) {
			p.selected = 0
		}
	}
	if ev.KeyPressed(KeyEnter) || ev.KeyPressed(KeySpace) {
		p.choose(p.selected)
		return true
	}
	if ev.KeyPressed(KeyEscape) {
		p.cancel()
		return true
	}
	if ev.MousePressed(MouseLeft) {
		for i, b := range p.buttons {
			if b.Contains(ev.MousePos) {
				p.choose(i)
				break
			}
		}
	}
	return true
}

func (p *PromptScene) choose(i int) {
	opt := p.action.Options[i]
	p.m.Flags().Set(p.action.FlagKey, opt.FlagValue)
	log.Debugf("scene: prompt %s chose %q, flag %s=%s", p.action.ID, opt.Label, p.action.FlagKey, opt.FlagValue)
	p.m.Pop()
}

// cancel dismisses the prompt without writing the flag. The dialogue
// continues past it as if no branch had been offered.
func (p *PromptScene) cancel() {
	log.Debugf("scene: prompt %s cancelled", p.action.ID)
	p.m.Pop()
}

func (p *PromptScene) Update(dt float64) error {
	p.fadeIn.Update(dt)
	mouse := p.m.Events().MousePos
	for i, b := range p.buttons {
		if b.Contains(mouse) {
			p.selected = i
		}
		b.Latched = i == p.selected
		b.Update(dt, mouse)
	}
	return nil
}

func (p *PromptScene) Draw(dst *image.RGBA) {
	size := p.m.Size()
	alpha := uint8(promptDimAlpha * p.fadeIn.Alpha())
	view.FillRect(dst, dst.Bounds(), color.RGBA{A: alpha})

	msgFace := p.m.Services().face(scalePx(p.m, promptMsgFontPx))
	msgY := size.Y/2 - scalePx(p.m, promptOptionGap)*(len(p.action.Options)+1)/2
	view.DrawTextCenter(dst, msgFace, p.action.Message, image.Point{X: size.X / 2, Y: msgY}, color.White)

	for _, b := range p.buttons {
		b.Draw(dst)
	}
}

func (p *PromptScene) ReloadLocale() {
	// option labels come from the script, only the faces refresh
	p.buildButtons()
}

func (p *PromptScene) Resize(image.Point) {
	p.buildButtons()
}

// scalePx converts a design-space length to frame pixels.
func scalePx(m *Manager, design int) int {
	v := int(float64(design) * m.UniformScale())
	if v < 1 {
		v = 1
	}
	return v
}
