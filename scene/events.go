package scene

import "image"

// Key is the small set of keys the scenes react to, decoupled from the
// window backend's key codes.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyEnter
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// MouseButton numbering follows the usual left/middle/right convention.
type MouseButton int

const (
	MouseLeft   MouseButton = 1
	MouseMiddle MouseButton = 2
	MouseRight  MouseButton = 3
)

// EventState collects the input of one frame. The window loop feeds it
// between ticks; Reset clears the edge-triggered part while position and
// size persist.
type EventState struct {
	Quit     bool
	Resized  bool
	Size     image.Point
	MousePos image.Point
	WheelDY  int

	keyDown   map[Key]bool
	keyUp     map[Key]bool
	mouseDown map[MouseButton]bool
	mouseUp   map[MouseButton]bool
}

func NewEventState() *EventState {
	return &EventState{
		keyDown:   map[Key]bool{},
		keyUp:     map[Key]bool{},
		mouseDown: map[MouseButton]bool{},
		mouseUp:   map[MouseButton]bool{},
	}
}

// Reset clears the per-frame edges, keeping MousePos and Size.
func (e *EventState) Reset() {
	e.Resized = false
	e.WheelDY = 0
	for k := range e.keyDown {
		delete(e.keyDown, k)
	}
	for k := range e.keyUp {
		delete(e.keyUp, k)
	}
	for b := range e.mouseDown {
		delete(e.mouseDown, b)
	}
	for b := range e.mouseUp {
		delete(e.mouseUp, b)
	}
}

func (e *EventState) PushKeyDown(k Key)           { e.keyDown[k] = true }
func (e *EventState) PushKeyUp(k Key)             { e.keyUp[k] = true }
func (e *EventState) PushMouseDown(b MouseButton) { e.mouseDown[b] = true }
func (e *EventState) PushMouseUp(b MouseButton)   { e.mouseUp[b] = true }

// KeyPressed reports a key-down edge this frame.
func (e *EventState) KeyPressed(k Key) bool { return e.keyDown[k] }

// KeyReleased reports a key-up edge this frame.
func (e *EventState) KeyReleased(k Key) bool { return e.keyUp[k] }

func (e *EventState) MousePressed(b MouseButton) bool  { return e.mouseDown[b] }
func (e *EventState) MouseReleased(b MouseButton) bool { return e.mouseUp[b] }
