// Package scene implements the player's screens and the stack that runs
// them: the dialogue scene executing authored scripts, the modal prompt
// and backlog overlays, and the title, settings and save select
// screens.
package scene

import "image"

// Scene names, also used to look scenes up on the stack.
const (
	SceneNameDialogue    = "dialogue"
	SceneNamePrompt      = "prompt"
	SceneNameDialogueLog = "dialogue_log"
	SceneNameTitle       = "title"
	SceneNameSettings    = "settings"
	SceneNameSaveSelect  = "save_select"
)

// Scene is one screen on the Manager's stack.
type Scene interface {
	Name() string

	// Enter runs when the scene lands on the stack, Leave when it comes
	// off, including via a stack switch.
	Enter()
	Leave()

	// Handle reacts to this frame's input. Returning true stops the
	// input from reaching scenes below.
	Handle(ev *EventState) bool

	// Exclusive scenes never pass input below, whatever Handle returns.
	Exclusive() bool

	// Overlay scenes draw on top of the scene below instead of
	// replacing it visually.
	Overlay() bool

	// Update advances scene state by dt seconds.
	Update(dt float64) error

	// Draw renders the scene onto the frame surface.
	Draw(dst *image.RGBA)

	// ReloadLocale re-reads localized labels after a language change or
	// a live locale file edit.
	ReloadLocale()

	// Resize adapts cached surfaces to a new frame size.
	Resize(size image.Point)
}

// sceneCommon carries the manager handle and default no-op behavior the
// concrete scenes embed.
type sceneCommon struct {
	name string
	m    *Manager
}

func newSceneCommon(name string, m *Manager) sceneCommon {
	return sceneCommon{name: name, m: m}
}

func (c sceneCommon) Name() string            { return c.name }
func (c sceneCommon) Enter()                  {}
func (c sceneCommon) Leave()                  {}
func (c sceneCommon) Handle(*EventState) bool { return false }
func (c sceneCommon) Exclusive() bool         { return false }
func (c sceneCommon) Overlay() bool           { return false }
func (c sceneCommon) Update(float64) error    { return nil }
func (c sceneCommon) Draw(*image.RGBA)        {}
func (c sceneCommon) ReloadLocale()           {}
func (c sceneCommon) Resize(image.Point)      {}
