package app

import (
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/paint"
)

// FpsLimitter delays paint events so the window does not repaint more
// often than FPS times per second. To construct this:
//
//	fps := FpsLimitter{EventDeque: deque, FPS: fps}
//
// zero value is invalid.
type FpsLimitter struct {
	EventDeque screen.EventDeque

	FPS       int // zero FPS means no limit.
	lastPaint time.Time
	scheduled bool // a delayed paint event is already queued?
}

// delayedPaintEvent is sent to the deque when the scheduled frame time
// arrives. It is converted back into a paint.Event by Filter.
type delayedPaintEvent struct{}

// Filter inspects one event from the deque. A paint event arriving too
// early is consumed and re-sent after the remaining frame time; in that
// case Filter returns nil. Other events are returned unchanged.
func (l *FpsLimitter) Filter(ev interface{}) interface{} {
	switch ev := ev.(type) {
	case delayedPaintEvent:
		l.scheduled = false
		l.lastPaint = time.Now()
		return paint.Event{}

	case paint.Event:
		if l.FPS <= 0 {
			return ev
		}
		if l.scheduled {
			// already waiting for the delayed one.
			return nil
		}

		frame := time.Second / time.Duration(l.FPS)
		now := time.Now()
		if d := now.Sub(l.lastPaint); d > 0 && d < frame {
			_ = time.AfterFunc(frame-d, func() {
				l.EventDeque.SendFirst(delayedPaintEvent{})
			})
			l.scheduled = true
			return nil
		}
		l.lastPaint = now
		return ev
	}
	return ev
}
