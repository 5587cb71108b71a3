package scene

import (
	"image"

	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

// DesignWidth is the width the authored layout targets; coordinates and
// sprite scales are proportional to the actual frame width over it.
const DesignWidth = 1920.0

// Manager runs the scene stack: input dispatch top-down, updates, draws
// from the topmost full-screen scene upward, and a deferred stack switch
// applied at the end of the frame so no scene is torn down under its own
// Update.
type Manager struct {
	services *Services
	flags    *Flags
	history  *History
	events   *EventState
	size     image.Point

	stack       []Scene
	pending     Scene
	hasPending  bool
	localeDirty bool
	quitting    bool
}

func NewManager(services *Services, size image.Point) *Manager {
	ev := NewEventState()
	ev.Size = size
	return &Manager{
		services: services,
		flags:    NewFlags(),
		history:  NewHistory(),
		events:   ev,
		size:     size,
	}
}

func (m *Manager) Services() *Services { return m.services }
func (m *Manager) Flags() *Flags       { return m.flags }
func (m *Manager) History() *History   { return m.history }

// Events returns the frame input state the window loop fills.
func (m *Manager) Events() *EventState { return m.events }

func (m *Manager) Size() image.Point { return m.size }

// UniformScale converts authored design-space lengths into frame pixels.
func (m *Manager) UniformScale() float64 {
	return float64(m.size.X) / DesignWidth
}

// Push puts a scene on top of the stack.
func (m *Manager) Push(s Scene) {
	log.Debugf("scene: push %s", s.Name())
	m.stack = append(m.stack, s)
	s.Enter()
}

// Pop removes the top scene. Popping an empty stack is a no-op.
func (m *Manager) Pop() {
	if len(m.stack) == 0 {
		return
	}
	top := m.stack[len(m.stack)-1]
	log.Debugf("scene: pop %s", top.Name())
	top.Leave()
	m.stack = m.stack[:len(m.stack)-1]
}

// Switch requests replacing the whole stack with s at the end of the
// current frame. The last request in a frame wins.
func (m *Manager) Switch(s Scene) {
	log.Debugf("scene: switch to %s requested", s.Name())
	m.pending = s
	m.hasPending = true
}

// Clear pops every scene.
func (m *Manager) Clear() {
	for len(m.stack) > 0 {
		m.Pop()
	}
}

// Top returns the topmost scene, nil for an empty stack.
func (m *Manager) Top() Scene {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Manager) Len() int { return len(m.stack) }

// Has reports whether a scene of the given name is anywhere on the
// stack.
func (m *Manager) Has(name string) bool {
	_, ok := m.SceneByName(name)
	return ok
}

// SceneByName finds the topmost scene of the given name.
func (m *Manager) SceneByName(name string) (Scene, bool) {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i].Name() == name {
			return m.stack[i], true
		}
	}
	return nil, false
}

// MarkLocaleDirty asks every scene to re-read localized labels on the
// next tick. The live locale file watcher calls this.
func (m *Manager) MarkLocaleDirty() { m.localeDirty = true }

// RequestQuit asks the window loop to shut down after this frame.
func (m *Manager) RequestQuit() { m.quitting = true }

// Quitting reports a pending shutdown request.
func (m *Manager) Quitting() bool { return m.quitting }

// Resize propagates a new frame size to every scene.
func (m *Manager) Resize(size image.Point) {
	m.size = size
	m.events.Size = size
	m.events.Resized = true
	for _, s := range m.stack {
		s.Resize(size)
	}
}

// Tick runs one frame: input dispatch, locale reloads, updates, drawing
// onto dst, then the event reset and any deferred switch. dst may be nil
// to skip drawing.
func (m *Manager) Tick(dt float64, dst *image.RGBA) error {
	if m.events.Quit {
		m.quitting = true
	}

	// locale reloads run before input so relabeled buttons never see a
	// click aimed at their old bounds
	if m.localeDirty {
		m.localeDirty = false
		for _, s := range m.stack {
			s.ReloadLocale()
		}
	}

	for i := len(m.stack) - 1; i >= 0; i-- {
		s := m.stack[i]
		if s.Handle(m.events) || s.Exclusive() {
			break
		}
	}

	var firstErr error
	for _, s := range m.stack {
		if err := s.Update(dt); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if dst != nil {
		start := 0
		for i := len(m.stack) - 1; i >= 0; i-- {
			if !m.stack[i].Overlay() {
				start = i
				break
			}
		}
		for i := start; i < len(m.stack); i++ {
			m.stack[i].Draw(dst)
		}
	}

	m.events.Reset()

	if m.hasPending {
		next := m.pending
		m.pending = nil
		m.hasPending = false
		m.Clear()
		m.Push(next)
	}
	return firstErr
}
