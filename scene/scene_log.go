package scene

import (
	"image"
	"image/color"

	"github.com/FoolCoder-code/Nitro-Express/view"
)

const (
	logFontPx   = 26
	logMarginX  = 220
	logMarginY  = 70
	logCellsMax = 64
	// rows scrolled per wheel notch or arrow key press
	logScrollStep = 3
)

// DialogueLogScene is the scrollable backlog overlay. It is exclusive;
// the dialogue below pauses visually and receives no input while the
// player reads.
type DialogueLogScene struct {
	sceneCommon
	scroll int // rows up from the newest line
	lines  []HistoryEntry
}

func NewDialogueLogScene(m *Manager) *DialogueLogScene {
	l := &DialogueLogScene{sceneCommon: newSceneCommon(SceneNameDialogueLog, m)}
	l.rebuild()
	return l
}

func (l *DialogueLogScene) Exclusive() bool { return true }
func (l *DialogueLogScene) Overlay() bool   { return true }

// rebuild flattens the backlog into wrapped display rows.
func (l *DialogueLogScene) rebuild() {
	l.lines = l.lines[:0]
	for _, e := range l.m.History().Entries() {
		for i, row := range view.WrapCells(e.Text, logCellsMax) {
			speaker := ""
			if i == 0 {
				speaker = e.Speaker
			}
			l.lines = append(l.lines, HistoryEntry{Speaker: speaker, Text: row})
		}
	}
}

func (l *DialogueLogScene) visibleRows() int {
	face := l.m.Services().face(scalePx(l.m, logFontPx))
	rowH := view.LineHeight(face) + scalePx(l.m, 8)
	usable := l.m.Size().Y - 2*scalePx(l.m, logMarginY)
	if rowH <= 0 {
		return 1
	}
	rows := usable / rowH
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l *DialogueLogScene) maxScroll() int {
	max := len(l.lines) - l.visibleRows()
	if max < 0 {
		max = 0
	}
	return max
}

func (l *DialogueLogScene) scrollBy(rows int) {
	l.scroll += rows
	if l.scroll < 0 {
		l.scroll = 0
	}
	if max := l.maxScroll(); l.scroll > max {
		l.scroll = max
	}
}

func (l *DialogueLogScene) Handle(ev *EventState) bool {
	switch {
	case ev.KeyPressed(KeyEscape), ev.MousePressed(MouseRight):
		l.m.Pop()
	case ev.KeyPressed(KeyUp):
		l.scrollBy(logScrollStep)
	case ev.KeyPressed(KeyDown):
		l.scrollBy(-logScrollStep)
	case ev.WheelDY > 0:
		l.scrollBy(logScrollStep)
	case ev.WheelDY < 0:
		l.scrollBy(-logScrollStep)
	case ev.MousePressed(MouseLeft):
		l.m.Pop()
	}
	return true
}

func (l *DialogueLogScene) Draw(dst *image.RGBA) {
	view.FillRect(dst, dst.Bounds(), color.RGBA{A: 210})

	face := l.m.Services().face(scalePx(l.m, logFontPx))
	rowH := view.LineHeight(face) + scalePx(l.m, 8)
	marginX := scalePx(l.m, logMarginX)
	y := scalePx(l.m, logMarginY)

	rows := l.visibleRows()
	end := len(l.lines) - l.scroll
	start := end - rows
	if start < 0 {
		start = 0
	}
	speakerCol := color.RGBA{R: 255, G: 220, B: 120, A: 255}
	for _, e := range l.lines[start:end] {
		if e.Speaker != "" {
			view.DrawText(dst, face, e.Speaker, image.Point{X: marginX - scalePx(l.m, 180), Y: y}, speakerCol)
		}
		view.DrawText(dst, face, e.Text, image.Point{X: marginX, Y: y}, color.White)
		y += rowH
	}
}
