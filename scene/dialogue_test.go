package scene

import (
	"image"
	"testing"

	"github.com/FoolCoder-code/Nitro-Express/save"
	"github.com/FoolCoder-code/Nitro-Express/script"
)

// roster with one character used by most scripts below.
func testRoster() []script.Character {
	return []script.Character{
		{ID: "rin", Sprite: "rin_normal", Scale: 1.0, Layer: 0},
		{ID: "aki", Sprite: "aki_normal", Scale: 1.0, Layer: 1},
	}
}

func pushDialogue(t *testing.T, m *Manager, scr *script.Script) *DialogueScene {
	t.Helper()
	d := newDialogueScene(m, "test", scr, 0)
	m.Push(d)
	return d
}

// clickAdvance clicks away from any button to request an advance.
func clickAdvance(m *Manager) {
	m.Events().MousePos = image.Point{X: 10, Y: 10}
	m.Events().PushMouseDown(MouseLeft)
}

func tick(t *testing.T, m *Manager, dt float64) {
	t.Helper()
	if err := m.Tick(dt, nil); err != nil {
		t.Fatalf("Tick: %v", err)
	}
}

func TestDialogueAppliesUpToFirstText(t *testing.T) {
	m, images := newTestManager()
	scr := &script.Script{
		Characters: testRoster(),
		Steps: []script.Step{
			{ID: "s1", Actions: []script.Action{
				script.SetBackground{File: "bg_station"},
				script.ShowCharacter{CharacterID: "rin", X: 0.2, Y: 0.1},
				script.ShowText{SpeakerName: "Rin", Text: "Hello"},
			}},
		},
	}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01)

	if d.StepIdx() != 0 {
		t.Fatalf("stepIdx = %d, want 0", d.StepIdx())
	}
	if images.IllustrationLoads["bg_station"] != 1 {
		t.Errorf("background loads = %d, want 1", images.IllustrationLoads["bg_station"])
	}
	st := d.chars["rin"]
	if st == nil || st.pos.X != 0.2 || st.pos.Y != 0.1 {
		t.Fatalf("rin not placed: %+v", st)
	}
	if d.tw.FullText() != "Hello" {
		t.Fatalf("text = %q, want Hello", d.tw.FullText())
	}
	if d.tw.Finished() {
		t.Error("reveal should still be running")
	}
	if d.speakerName != "Rin" {
		t.Errorf("speaker = %q", d.speakerName)
	}

	// waiting for input does not re-apply anything
	tick(t, m, 0.01)
	if images.IllustrationLoads["bg_station"] != 1 {
		t.Errorf("background re-applied: %d loads", images.IllustrationLoads["bg_station"])
	}
}

func TestDialogueClickFinishesThenAdvances(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{
		Characters: testRoster(),
		Steps: []script.Step{
			{ID: "s1", Actions: []script.Action{script.ShowText{SpeakerName: "Rin", Text: "Hello"}}},
			{ID: "s2", Actions: []script.Action{
				script.MoveCharacter{CharacterID: "rin", FromX: -1, ToX: 0, Duration: 0.5, Easing: "linear"},
				script.ShowText{SpeakerName: "Rin", Text: "World"},
			}},
		},
	}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01) // text applied, reveal running

	// first click completes the reveal without advancing
	clickAdvance(m)
	tick(t, m, 0.01)
	if d.StepIdx() != 0 {
		t.Fatalf("advanced on reveal-completing click, stepIdx=%d", d.StepIdx())
	}
	if d.tw.VisibleText() != "Hello" {
		t.Fatalf("visible = %q, want full Hello", d.tw.VisibleText())
	}

	// second click finishes the step and rolls into the next in the
	// same frame, leaving the move running and the new reveal started
	clickAdvance(m)
	tick(t, m, 0.01)
	if d.StepIdx() != 1 {
		t.Fatalf("stepIdx = %d, want 1", d.StepIdx())
	}
	if d.tw.FullText() != "World" {
		t.Fatalf("text = %q, want World", d.tw.FullText())
	}
	if d.chars["rin"].anim == nil {
		t.Error("move animation not running")
	}
}

func TestDialogueKeyboardGuard(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{script.ShowText{Text: "A"}}},
		{ID: "s2", Actions: []script.Action{script.ShowText{Text: "B"}}},
		{ID: "s3", Actions: []script.Action{script.ShowText{Text: "C"}}},
	}}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01) // "A" applied
	tick(t, m, 1.0)  // "A" fully revealed

	// key down advances once
	m.Events().PushKeyDown(KeySpace)
	tick(t, m, 1.0)
	if d.StepIdx() != 1 {
		t.Fatalf("stepIdx = %d, want 1", d.StepIdx())
	}

	// a repeated down without a release is held, not a new advance
	m.Events().PushKeyDown(KeySpace)
	tick(t, m, 1.0)
	if d.StepIdx() != 1 {
		t.Fatalf("held key advanced, stepIdx=%d", d.StepIdx())
	}

	// release then press counts again
	m.Events().PushKeyUp(KeySpace)
	m.Events().PushKeyDown(KeySpace)
	tick(t, m, 1.0)
	if d.StepIdx() != 2 {
		t.Fatalf("stepIdx = %d, want 2", d.StepIdx())
	}
}

func promptScript() *script.Script {
	return &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{script.ShowText{Text: "Choose"}}},
		{ID: "s2", Actions: []script.Action{
			script.Prompt{
				ID:      "q1",
				Message: "Which route?",
				FlagKey: "route",
				Options: []script.PromptOption{
					{Label: "Rin", FlagValue: "rin"},
					{Label: "Aki", FlagValue: "aki"},
				},
			},
			script.ShowText{Text: "After"},
		}},
	}}
}

func TestDialoguePromptFlow(t *testing.T) {
	m, _ := newTestManager()
	d := pushDialogue(t, m, promptScript())
	tick(t, m, 0.01) // "Choose" applied
	tick(t, m, 1.0)  // fully revealed
	clickAdvance(m)
	tick(t, m, 0.01) // into step 2: prompt pushed

	top := m.Top()
	if top.Name() != SceneNamePrompt {
		t.Fatalf("top = %s, want prompt", top.Name())
	}
	if !top.Exclusive() || !top.Overlay() {
		t.Error("prompt must be an exclusive overlay")
	}

	// advance clicks are swallowed by the modal prompt
	clickAdvance(m)
	tick(t, m, 0.01)
	if m.Top().Name() != SceneNamePrompt {
		t.Fatal("prompt left without a choice")
	}
	if d.tw.FullText() != "Choose" {
		t.Fatalf("dialogue advanced under the prompt: %q", d.tw.FullText())
	}

	// pick the second option
	p := m.Top().(*PromptScene)
	b := p.buttons[1].Bounds()
	m.Events().MousePos = b.Min.Add(b.Size().Div(2))
	m.Events().PushMouseDown(MouseLeft)
	tick(t, m, 0.01)

	if m.Has(SceneNamePrompt) {
		t.Fatal("prompt still on the stack after choosing")
	}
	if v, _ := m.Flags().Get("route"); v != "aki" {
		t.Fatalf("flag route = %q, want aki", v)
	}

	// the next advance resumes after the prompt without re-pushing it
	clickAdvance(m)
	tick(t, m, 0.01)
	if m.Has(SceneNamePrompt) {
		t.Fatal("prompt pushed a second time")
	}
	if d.tw.FullText() != "After" {
		t.Fatalf("text = %q, want After", d.tw.FullText())
	}
}

func TestDialogueSlowestSpeedFreezesReveal(t *testing.T) {
	m, _ := newTestManager()
	m.Services().Config.TextSpeed = 0
	scr := &script.Script{
		Characters: testRoster(),
		Steps: []script.Step{
			{ID: "s1", Actions: []script.Action{script.ShowText{SpeakerName: "Rin", Text: "Hello"}}},
		},
	}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01) // text applied
	tick(t, m, 5.0)  // at the slowest setting time alone reveals nothing
	if got := d.tw.VisibleText(); got != "" {
		t.Fatalf("visible = %q, want nothing at speed 0", got)
	}
	if d.tw.Finished() {
		t.Fatal("frozen reveal finished on its own")
	}

	// a click still completes the line
	clickAdvance(m)
	tick(t, m, 0.01)
	if d.tw.VisibleText() != "Hello" {
		t.Fatalf("visible after click = %q, want Hello", d.tw.VisibleText())
	}
}

func TestDialogueBackgroundTransition(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{
		Characters: testRoster(),
		Steps: []script.Step{
			{ID: "s1", Actions: []script.Action{
				script.SetBackground{File: "bg_a"},
				script.ShowText{Text: "One"},
			}},
			{ID: "s2", Actions: []script.Action{
				script.SetBackground{File: "bg_b", Transition: &script.Transition{
					Type: "fade", Duration: 1.0, Easing: "linear",
				}},
				script.ShowText{Text: "Two"},
			}},
		},
	}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01)

	// a plain apply swaps the image without any fade state
	if d.background == nil {
		t.Fatal("background not applied")
	}
	if d.bgFade != nil || d.bgPrev != nil {
		t.Fatal("transitionless set_background created a fade record")
	}

	tick(t, m, 1.0) // reveal "One"
	clickAdvance(m)
	tick(t, m, 0.01) // into step 2: fade starts, old image kept

	if d.bgFade == nil || d.bgPrev == nil {
		t.Fatal("fade transition created no fade record")
	}
	first := d.bgFade.Elapsed()
	tick(t, m, 0.3)
	if d.bgFade == nil || d.bgFade.Elapsed() <= first {
		t.Fatal("fade clock did not elapse")
	}

	// past the duration the new image commits and the record clears
	tick(t, m, 1.0)
	if d.bgFade != nil || d.bgPrev != nil {
		t.Fatal("finished fade not committed and cleared")
	}
	if d.background == nil {
		t.Fatal("background lost after fade commit")
	}
}

func TestPromptKeyboardSelect(t *testing.T) {
	m, _ := newTestManager()
	pushDialogue(t, m, promptScript())
	tick(t, m, 0.01)
	tick(t, m, 1.0)
	clickAdvance(m)
	tick(t, m, 0.01)
	if m.Top().Name() != SceneNamePrompt {
		t.Fatalf("top = %s, want prompt", m.Top().Name())
	}

	m.Events().PushKeyDown(KeyDown)
	tick(t, m, 0.01)
	m.Events().PushKeyDown(KeyEnter)
	tick(t, m, 0.01)

	if m.Has(SceneNamePrompt) {
		t.Fatal("prompt still on the stack after enter")
	}
	if v, _ := m.Flags().Get("route"); v != "aki" {
		t.Fatalf("flag route = %q, want aki", v)
	}
}

func TestPromptEscapeCancels(t *testing.T) {
	m, _ := newTestManager()
	d := pushDialogue(t, m, promptScript())
	tick(t, m, 0.01)
	tick(t, m, 1.0)
	clickAdvance(m)
	tick(t, m, 0.01)
	if m.Top().Name() != SceneNamePrompt {
		t.Fatalf("top = %s, want prompt", m.Top().Name())
	}

	m.Events().PushKeyDown(KeyEscape)
	tick(t, m, 0.01)

	if m.Has(SceneNamePrompt) {
		t.Fatal("prompt still on the stack after escape")
	}
	if _, ok := m.Flags().Get("route"); ok {
		t.Fatal("cancelled prompt wrote its flag")
	}
	// escape must not have opened the settings overlay underneath
	if m.Has(SceneNameSettings) {
		t.Fatal("escape leaked through to the dialogue")
	}

	// the dialogue continues past the cancelled branch
	clickAdvance(m)
	tick(t, m, 0.01)
	if d.tw.FullText() != "After" {
		t.Fatalf("text = %q, want After", d.tw.FullText())
	}
}

func TestDialogueChangeSceneByFlags(t *testing.T) {
	m, _ := newTestManager()
	next := &script.Script{Steps: []script.Step{
		{ID: "b1", Actions: []script.Action{script.ShowText{Text: "B side"}}},
	}}
	m.Services().Scripts.(stubScripts)["scene_b"] = next
	m.Services().Scripts.(stubScripts)["scene_a"] = &script.Script{}

	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{
			script.ChangeScene{Targets: []script.SceneTarget{
				{SceneID: "scene_b", RequiredFlags: map[string]string{"route": "b"}},
				{SceneID: "scene_a"},
			}},
		}},
	}}
	m.Flags().Set("route", "b")
	d := pushDialogue(t, m, scr)

	tick(t, m, 0.01)
	top, ok := m.Top().(*DialogueScene)
	if !ok {
		t.Fatalf("top = %T, want dialogue", m.Top())
	}
	if top.SceneID() != "scene_b" {
		t.Fatalf("switched to %q, want scene_b", top.SceneID())
	}
	if top == d {
		t.Fatal("still the old scene")
	}
	if m.Len() != 1 {
		t.Fatalf("stack len = %d, want 1", m.Len())
	}
}

func TestDialogueChangeSceneFallthrough(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{
			script.ChangeScene{Targets: []script.SceneTarget{
				{SceneID: "scene_x", RequiredFlags: map[string]string{"route": "x"}},
			}},
			script.ShowText{Text: "No match"},
		}},
	}}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01)

	// unmatched change is a no-op; execution continues
	if d != m.Top() {
		t.Fatal("scene switched without a matching target")
	}
	if d.tw.FullText() != "No match" {
		t.Fatalf("text = %q", d.tw.FullText())
	}
}

func TestDialogueTerminalNoOp(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{script.ShowText{Text: "End"}}},
	}}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01)
	tick(t, m, 1.0)
	clickAdvance(m)
	tick(t, m, 0.01)

	if !d.Finished() {
		t.Fatal("script end not reached")
	}
	// further frames and clicks stay quiet
	for i := 0; i < 3; i++ {
		clickAdvance(m)
		tick(t, m, 0.5)
	}
	if d.StepIdx() != 1 {
		t.Fatalf("stepIdx = %d, want 1", d.StepIdx())
	}
}

func TestDialogueSkipHaltsAtPrompt(t *testing.T) {
	m, _ := newTestManager()
	d := pushDialogue(t, m, promptScript())
	d.skipMode = true
	d.btnSkip.Latched = true

	tick(t, m, 0.01)
	if d.StepIdx() != 1 {
		t.Fatalf("stepIdx = %d, want 1 (skipped through step 1)", d.StepIdx())
	}
	if d.skipMode {
		t.Fatal("skip mode survived the prompt")
	}
	if !m.Has(SceneNamePrompt) {
		t.Fatal("prompt not shown after skip halt")
	}
	if m.History().Len() != 1 {
		t.Fatalf("history = %d lines, want 1", m.History().Len())
	}
	if d.tw.VisibleText() != "Choose" {
		t.Fatalf("skipped text not fully revealed: %q", d.tw.VisibleText())
	}
}

func TestDialogueSkipReadOnly(t *testing.T) {
	m, _ := newTestManager()
	rf := save.NewReadFlags()
	rf.Mark("test", 0) // only the first step was read before
	m.Services().ReadFlags = rf
	m.Services().Config.SkipRead = true

	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{script.ShowText{Text: "Read line"}}},
		{ID: "s2", Actions: []script.Action{script.ShowText{Text: "Fresh line"}}},
	}}
	d := pushDialogue(t, m, scr)
	d.skipMode = true
	d.btnSkip.Latched = true

	tick(t, m, 0.01)
	if d.StepIdx() != 1 {
		t.Fatalf("stepIdx = %d, want 1", d.StepIdx())
	}
	if d.skipMode {
		t.Fatal("skip ran into unread text")
	}
	if d.tw.Finished() {
		t.Fatal("unread text should reveal normally")
	}
}

func TestDialogueAutoMode(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{script.ShowText{Text: "Hi"}}},
		{ID: "s2", Actions: []script.Action{script.ShowText{Text: "There"}}},
	}}
	d := pushDialogue(t, m, scr)
	d.autoMode = true

	tick(t, m, 0.3) // applies the text
	tick(t, m, 0.3) // reveal finishes, delay 0.3 of 0.8
	tick(t, m, 0.3) // delay 0.6
	if d.StepIdx() != 0 {
		t.Fatalf("auto advanced too early, stepIdx=%d", d.StepIdx())
	}
	tick(t, m, 0.3) // delay 0.9 >= 0.8: advance
	if d.StepIdx() != 1 {
		t.Fatalf("stepIdx = %d, want 1 after the auto delay", d.StepIdx())
	}
}

func TestDialogueAutoPausesBehindPrompt(t *testing.T) {
	m, _ := newTestManager()
	d := pushDialogue(t, m, promptScript())
	d.autoMode = true

	for i := 0; i < 10; i++ {
		tick(t, m, 0.5)
	}
	if !m.Has(SceneNamePrompt) {
		t.Fatal("prompt never appeared")
	}
	before := d.tw.FullText()
	for i := 0; i < 10; i++ {
		tick(t, m, 0.5)
	}
	if d.tw.FullText() != before {
		t.Fatal("auto mode advanced under the open prompt")
	}
}

func TestDialogueStageErrors(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{
		Characters: testRoster(),
		Steps: []script.Step{
			{ID: "s1", Actions: []script.Action{script.HideCharacter{CharacterID: "rin"}}},
			{ID: "s2", Actions: []script.Action{
				script.MoveCharacter{CharacterID: "rin", Duration: 0.1, Easing: "linear"},
			}},
		},
	}
	pushDialogue(t, m, scr)
	err := m.Tick(0.01, nil)
	if err == nil {
		t.Fatal("moving a hidden character should fail")
	}
	if !script.IsContentError(err) {
		t.Fatalf("err = %v, want a content error", err)
	}
}

func TestDialogueShowAfterHideReestablishes(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{
		Characters: testRoster(),
		Steps: []script.Step{
			{ID: "s1", Actions: []script.Action{
				script.HideCharacter{CharacterID: "rin"},
				script.ShowCharacter{CharacterID: "rin", X: 0.5},
				script.MoveCharacter{CharacterID: "rin", FromX: 0.5, ToX: 0, Duration: 0.1, Easing: "linear"},
				script.ShowText{Text: "Back"},
			}},
		},
	}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01)
	if d.chars["rin"] == nil {
		t.Fatal("rin not back on stage")
	}
}

func TestDialogueHighlight(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{
		Characters: testRoster(),
		Steps: []script.Step{
			{ID: "s1", Actions: []script.Action{
				script.ShowCharacter{CharacterID: "rin"},
				script.ShowCharacter{CharacterID: "aki"},
				script.SetHighlight{CharacterID: "rin", DimOthers: true},
				script.ShowText{Text: "..."},
			}},
		},
	}
	d := pushDialogue(t, m, scr)
	tick(t, m, 0.01)
	if !d.chars["rin"].highlighted {
		t.Error("rin should be highlighted")
	}
	if d.chars["aki"].highlighted {
		t.Error("aki should be dimmed")
	}
}

func TestDialogueHideUI(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{script.ShowText{Text: "Hi"}}},
		{ID: "s2", Actions: []script.Action{script.ShowText{Text: "There"}}},
	}}
	d := pushDialogue(t, m, scr)
	tick(t, m, 1.0)
	d.hideUI = true

	// the first click only brings the UI back
	clickAdvance(m)
	tick(t, m, 0.01)
	if d.hideUI {
		t.Fatal("UI still hidden after a click")
	}
	if d.StepIdx() != 0 {
		t.Fatalf("unhide click advanced the script, stepIdx=%d", d.StepIdx())
	}
}

func TestDialogueSnapshotRestore(t *testing.T) {
	m, _ := newTestManager()
	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{
			script.SetBackground{File: "bg_station"},
			script.ShowText{Text: "One"},
		}},
		{ID: "s2", Actions: []script.Action{script.ShowText{Text: "Two"}}},
	}}
	d := pushDialogue(t, m, scr)
	m.Flags().Set("route", "rin")
	tick(t, m, 0.01)
	tick(t, m, 1.0)
	clickAdvance(m)
	tick(t, m, 0.01)
	if d.StepIdx() != 1 {
		t.Fatalf("stepIdx = %d, want 1", d.StepIdx())
	}

	snap := d.Snapshot()
	if snap.SceneID != "test" || snap.StepIdx != 1 || snap.Flags["route"] != "rin" {
		t.Fatalf("snapshot = %+v", snap)
	}

	// restore into a fresh manager
	m2, images2 := newTestManager()
	m2.Flags().Restore(snap.Flags)
	d2 := newDialogueScene(m2, snap.SceneID, scr, snap.StepIdx)
	m2.Push(d2)
	tick(t, m2, 0.01)

	if d2.StepIdx() != 1 {
		t.Fatalf("restored stepIdx = %d", d2.StepIdx())
	}
	if d2.tw.FullText() != "Two" {
		t.Fatalf("restored text = %q", d2.tw.FullText())
	}
	// the background from the earlier step is re-resolved on enter
	if images2.IllustrationLoads["bg_station"] != 1 {
		t.Errorf("restored background loads = %d, want 1", images2.IllustrationLoads["bg_station"])
	}
}

func TestDialogueButtons(t *testing.T) {
	m, _ := newTestManager()
	m.Resize(image.Point{X: 1920, Y: 1080})
	scr := &script.Script{Steps: []script.Step{
		{ID: "s1", Actions: []script.Action{script.ShowText{Text: "Hi"}}},
	}}
	d := pushDialogue(t, m, scr)
	tick(t, m, 1.0)

	press := func(b interface{ Bounds() image.Rectangle }) {
		r := b.Bounds()
		m.Events().MousePos = r.Min.Add(r.Size().Div(2))
		m.Events().PushMouseDown(MouseLeft)
	}

	press(d.btnAuto)
	tick(t, m, 0.01)
	if !d.autoMode || !d.btnAuto.Latched {
		t.Fatal("auto button did not latch")
	}
	press(d.btnAuto)
	tick(t, m, 0.01)
	if d.autoMode {
		t.Fatal("auto button did not unlatch")
	}

	if d.btnSkip.Contains(d.btnSkip.Bounds().Min.Add(d.btnSkip.Bounds().Size().Div(2))) {
		t.Fatal("skip visible before opening the dropdown")
	}
	press(d.btnMore)
	tick(t, m, 0.01)
	press(d.btnSkip)
	tick(t, m, 0.01)
	if !d.skipMode {
		t.Fatal("skip button did not engage")
	}

	press(d.btnLog)
	tick(t, m, 0.01)
	if m.Top().Name() != SceneNameDialogueLog {
		t.Fatalf("top = %s, want dialogue_log", m.Top().Name())
	}
}

func TestDialogueLogOverlay(t *testing.T) {
	m, _ := newTestManager()
	m.History().Add("Rin", "First line")
	m.History().Add("Aki", "Second line")

	l := NewDialogueLogScene(m)
	m.Push(l)
	if len(l.lines) != 2 {
		t.Fatalf("rows = %d, want 2", len(l.lines))
	}

	m.Events().PushKeyDown(KeyEscape)
	tick(t, m, 0.01)
	if m.Has(SceneNameDialogueLog) {
		t.Fatal("escape did not close the log")
	}
}
