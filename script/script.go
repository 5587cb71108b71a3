// Package script defines the dialogue script model: an ordered list of
// steps, each an ordered list of typed actions, plus the character
// roster of the scene. A Script is immutable once decoded; the dialogue
// scene owns it read-only for the scene's lifetime.
package script

// Character is one roster entry of a dialogue scene.
type Character struct {
	ID     string
	Sprite string // sprite pak entry name
	Scale  float64
	Layer  int
}

// Step is an ordered group of actions which completes as a unit.
type Step struct {
	ID      string
	Actions []Action
}

// Script is one authored dialogue scene.
type Script struct {
	Characters []Character
	Steps      []Step
}

// CharacterByID returns the roster entry, or false when the id is not
// authored.
func (s *Script) CharacterByID(id string) (Character, bool) {
	for _, c := range s.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// LatestBackground resolves the newest set_background at or before the
// given position in script order: backward through the current step's
// actions up to actionIdx inclusive, then backward through prior steps.
// actionIdx < 0 means no action of the step position applied yet; the
// scan then covers prior steps only. Returns false when no background
// was set yet.
func (s *Script) LatestBackground(stepIdx, actionIdx int) (SetBackground, bool) {
	if stepIdx >= len(s.Steps) {
		stepIdx = len(s.Steps) - 1
		if stepIdx >= 0 {
			actionIdx = len(s.Steps[stepIdx].Actions) - 1
		}
	}
	for si := stepIdx; si >= 0; si-- {
		actions := s.Steps[si].Actions
		ai := len(actions) - 1
		if si == stepIdx {
			if actionIdx < 0 {
				continue
			}
			if actionIdx < len(actions) {
				ai = actionIdx
			}
		}
		for ; ai >= 0; ai-- {
			if bg, ok := actions[ai].(SetBackground); ok {
				return bg, true
			}
		}
	}
	return SetBackground{}, false
}
