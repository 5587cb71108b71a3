package script

// Kind identifies an action variant. The set is closed; scripts are
// authored against exactly this vocabulary.
type Kind string

const (
	KindShowText      Kind = "show_text"
	KindSetBackground Kind = "set_background"
	KindPlayBGM       Kind = "play_bgm"
	KindPlaySFX       Kind = "play_sfx"
	KindShowCharacter Kind = "show_character"
	KindMoveCharacter Kind = "move_character"
	KindHideCharacter Kind = "hide_character"
	KindSetHighlight  Kind = "set_highlight"
	KindScreenShake   Kind = "screen_shake"
	KindPrompt        Kind = "prompt"
	KindChangeScene   Kind = "change_dialogue_scene"
)

// Action is the closed tagged union over script instructions. One struct
// per kind, each carrying its own typed argument record, so applying an
// action is an exhaustive type switch instead of a string branch.
type Action interface {
	Kind() Kind
	isAction()
}

// ShowText sets the speaker and starts revealing body text. Blocking.
type ShowText struct {
	SpeakerName  string
	SpeakerTitle string
	Text         string
}

// Transition is an optional timed cross-fade attached to SetBackground.
type Transition struct {
	Type     string // only "fade" is defined
	Duration float64
	Easing   string
}

// SetBackground swaps the scene background, optionally blurred and/or
// cross-faded.
type SetBackground struct {
	File       string
	Blur       int
	Transition *Transition
}

// PlayBGM and PlaySFX are parsed for script compatibility; the player
// applies them as no-ops since audio playback is out of scope.
type PlayBGM struct {
	Track string
	Loop  bool
}

type PlaySFX struct {
	Name string
}

// ShowCharacter places a character at a normalized position. Coordinates
// are center-origin with range [-1,1], positive x right, positive y down.
type ShowCharacter struct {
	CharacterID string
	X, Y        float64
}

// MoveCharacter animates a character between two normalized positions.
type MoveCharacter struct {
	CharacterID  string
	FromX, FromY float64
	ToX, ToY     float64
	Duration     float64
	Easing       string
}

// HideCharacter removes the character from the stage entirely.
type HideCharacter struct {
	CharacterID string
}

// SetHighlight marks one character highlighted. DimOthers clears every
// highlight first; an empty CharacterID with DimOthers dims everyone.
type SetHighlight struct {
	CharacterID string
	DimOthers   bool
}

// ScreenShake (re)starts the shake controller.
type ScreenShake struct {
	Duration  float64
	Intensity float64
	Frequency float64
	Infinite  bool
}

// PromptOption is one selectable branch outcome.
type PromptOption struct {
	Label     string
	FlagValue string
}

// Prompt pushes a modal branch choice. Blocking.
type Prompt struct {
	ID      string
	Message string
	FlagKey string
	Options []PromptOption
}

// SceneTarget is one candidate of ChangeScene; it wins when every
// required flag equality holds.
type SceneTarget struct {
	SceneID       string
	RequiredFlags map[string]string
}

// ChangeScene switches to the first matching target script, or does
// nothing when no target matches.
type ChangeScene struct {
	Targets []SceneTarget
}

func (ShowText) Kind() Kind      { return KindShowText }
func (SetBackground) Kind() Kind { return KindSetBackground }
func (PlayBGM) Kind() Kind       { return KindPlayBGM }
func (PlaySFX) Kind() Kind       { return KindPlaySFX }
func (ShowCharacter) Kind() Kind { return KindShowCharacter }
func (MoveCharacter) Kind() Kind { return KindMoveCharacter }
func (HideCharacter) Kind() Kind { return KindHideCharacter }
func (SetHighlight) Kind() Kind  { return KindSetHighlight }
func (ScreenShake) Kind() Kind   { return KindScreenShake }
func (Prompt) Kind() Kind        { return KindPrompt }
func (ChangeScene) Kind() Kind   { return KindChangeScene }

func (ShowText) isAction()      {}
func (SetBackground) isAction() {}
func (PlayBGM) isAction()       {}
func (PlaySFX) isAction()       {}
func (ShowCharacter) isAction() {}
func (MoveCharacter) isAction() {}
func (HideCharacter) isAction() {}
func (SetHighlight) isAction()  {}
func (ScreenShake) isAction()   {}
func (Prompt) isAction()        {}
func (ChangeScene) isAction()   {}

// Blocking reports whether the action can hold the step until input.
// show_text and prompt are the only two blocking kinds.
func Blocking(a Action) bool {
	switch a.(type) {
	case ShowText, Prompt:
		return true
	default:
		return false
	}
}
