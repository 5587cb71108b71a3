package scene

import (
	"image"
	"testing"
)

// recordScene logs its lifecycle and input calls.
type recordScene struct {
	sceneCommon
	calls     *[]string
	exclusive bool
	overlay   bool
	consume   bool
}

func newRecordScene(name string, m *Manager, calls *[]string) *recordScene {
	return &recordScene{sceneCommon: newSceneCommon(name, m), calls: calls}
}

func (r *recordScene) Enter() { *r.calls = append(*r.calls, r.Name()+".enter") }
func (r *recordScene) Leave() { *r.calls = append(*r.calls, r.Name()+".leave") }

func (r *recordScene) Handle(*EventState) bool {
	*r.calls = append(*r.calls, r.Name()+".handle")
	return r.consume
}

func (r *recordScene) Update(float64) error {
	*r.calls = append(*r.calls, r.Name()+".update")
	return nil
}

func (r *recordScene) Draw(*image.RGBA) {
	*r.calls = append(*r.calls, r.Name()+".draw")
}

func (r *recordScene) ReloadLocale() {
	*r.calls = append(*r.calls, r.Name()+".locale")
}

func (r *recordScene) Exclusive() bool { return r.exclusive }
func (r *recordScene) Overlay() bool   { return r.overlay }

func TestManagerPushPop(t *testing.T) {
	m, _ := newTestManager()
	var calls []string
	a := newRecordScene("a", m, &calls)
	b := newRecordScene("b", m, &calls)

	m.Push(a)
	m.Push(b)
	if m.Len() != 2 || m.Top() != b {
		t.Fatalf("stack broken: len=%d top=%v", m.Len(), m.Top())
	}
	if !m.Has("a") || m.Has("zzz") {
		t.Error("Has lookup broken")
	}

	m.Pop()
	if m.Top() != a {
		t.Fatalf("top after pop = %v", m.Top())
	}
	m.Pop()
	m.Pop() // empty pop is a no-op
	if m.Len() != 0 {
		t.Fatalf("len = %d, want 0", m.Len())
	}

	want := []string{"a.enter", "b.enter", "b.leave", "a.leave"}
	assertCalls(t, calls, want)
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls[%d] = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestManagerInputDispatch(t *testing.T) {
	m, _ := newTestManager()
	var calls []string
	bottom := newRecordScene("bottom", m, &calls)
	mid := newRecordScene("mid", m, &calls)
	top := newRecordScene("top", m, &calls)
	m.Push(bottom)
	m.Push(mid)
	m.Push(top)
	calls = calls[:0]

	// nothing consumes: every scene sees the input, top first
	if err := m.Tick(0.016, nil); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, calls[:3], []string{"top.handle", "mid.handle", "bottom.handle"})

	// consuming stops the walk below the consumer
	calls = calls[:0]
	top.consume = true
	m.Tick(0.016, nil)
	assertCalls(t, calls[:1], []string{"top.handle"})

	// exclusive stops it even without consuming
	calls = calls[:0]
	top.consume = false
	top.exclusive = true
	m.Tick(0.016, nil)
	assertCalls(t, calls[:1], []string{"top.handle"})
}

func TestManagerDrawFromTopmostFullScreen(t *testing.T) {
	m, _ := newTestManager()
	var calls []string
	base := newRecordScene("base", m, &calls)
	full := newRecordScene("full", m, &calls)
	over := newRecordScene("over", m, &calls)
	over.overlay = true
	m.Push(base)
	m.Push(full)
	m.Push(over)

	dst := image.NewRGBA(image.Rect(0, 0, 320, 180))
	m.Tick(0.016, dst)

	var draws []string
	for _, c := range calls {
		if len(c) > 5 && c[len(c)-5:] == ".draw" {
			draws = append(draws, c)
		}
	}
	// base is hidden behind the full-screen scene
	assertCalls(t, draws, []string{"full.draw", "over.draw"})
}

func TestManagerDeferredSwitch(t *testing.T) {
	m, _ := newTestManager()
	var calls []string
	a := newRecordScene("a", m, &calls)
	b := newRecordScene("b", m, &calls)
	next := newRecordScene("next", m, &calls)
	m.Push(a)
	m.Push(b)

	m.Switch(next)
	// nothing changes until the frame ends
	if m.Top() != b {
		t.Fatal("switch applied immediately")
	}

	calls = calls[:0]
	m.Tick(0.016, nil)
	if m.Len() != 1 || m.Top() != next {
		t.Fatalf("stack after switch: len=%d top=%v", m.Len(), m.Top())
	}
	// old scenes still updated this frame, then left, then the new enters
	assertCalls(t, calls, []string{
		"b.handle", "a.handle",
		"a.update", "b.update",
		"b.leave", "a.leave",
		"next.enter",
	})
}

func TestManagerLocaleDirty(t *testing.T) {
	m, _ := newTestManager()
	var calls []string
	a := newRecordScene("a", m, &calls)
	m.Push(a)
	calls = calls[:0]

	m.MarkLocaleDirty()
	m.Tick(0.016, nil)
	// the reload lands before this frame's input dispatch
	assertCalls(t, calls, []string{"a.locale", "a.handle", "a.update"})

	// only once
	calls = calls[:0]
	m.Tick(0.016, nil)
	for _, c := range calls {
		if c == "a.locale" {
			t.Fatal("ReloadLocale called again without a new mark")
		}
	}
}

func TestManagerQuit(t *testing.T) {
	m, _ := newTestManager()
	if m.Quitting() {
		t.Fatal("fresh manager quitting")
	}
	m.Events().Quit = true
	m.Tick(0.016, nil)
	if !m.Quitting() {
		t.Fatal("window quit event not latched")
	}
}

func TestManagerResize(t *testing.T) {
	m, _ := newTestManager()
	m.Resize(image.Point{X: 640, Y: 360})
	if m.Size().X != 640 {
		t.Fatalf("size = %v", m.Size())
	}
	if got := m.UniformScale(); got != 640.0/1920.0 {
		t.Errorf("UniformScale = %v", got)
	}
	if !m.Events().Resized {
		t.Error("resize flag not set")
	}
}

func TestEventStateReset(t *testing.T) {
	e := NewEventState()
	e.PushKeyDown(KeySpace)
	e.PushMouseDown(MouseLeft)
	e.WheelDY = 2
	e.MousePos = image.Point{X: 5, Y: 6}

	if !e.KeyPressed(KeySpace) || !e.MousePressed(MouseLeft) {
		t.Fatal("edges not recorded")
	}
	e.Reset()
	if e.KeyPressed(KeySpace) || e.MousePressed(MouseLeft) || e.WheelDY != 0 {
		t.Fatal("edges survived Reset")
	}
	if e.MousePos.X != 5 {
		t.Fatal("MousePos should persist across Reset")
	}
}

func TestFlags(t *testing.T) {
	f := NewFlags()
	if !f.Matches(nil) || !f.Matches(map[string]string{}) {
		t.Fatal("empty requirement must match")
	}
	if f.Matches(map[string]string{"route": "rin"}) {
		t.Fatal("unset flag matched")
	}
	f.Set("route", "rin")
	if !f.Matches(map[string]string{"route": "rin"}) {
		t.Fatal("set flag did not match")
	}
	if f.Matches(map[string]string{"route": "rin", "met": "yes"}) {
		t.Fatal("partial requirement matched")
	}

	snap := f.Snapshot()
	f.Set("route", "aki")
	if snap["route"] != "rin" {
		t.Fatal("snapshot aliased live state")
	}
	f.Restore(snap)
	if v, _ := f.Get("route"); v != "rin" {
		t.Fatalf("restored route = %q", v)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory()
	for i := 0; i < historyLimit+10; i++ {
		h.Add("a", "line")
	}
	if h.Len() != historyLimit {
		t.Fatalf("len = %d, want %d", h.Len(), historyLimit)
	}
}
