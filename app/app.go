package app

import (
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	nitro "github.com/FoolCoder-code/Nitro-Express"
	"github.com/FoolCoder-code/Nitro-Express/scene"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

// maxFrameDelta caps the per-frame delta time so a stall (window drag,
// debugger pause) does not fast-forward animations and the auto timer.
const maxFrameDelta = 0.25

// Main opens the application window and runs g until it quits.
// Its internal errors are handled by itself.
func Main(title string, g *nitro.Game) {
	log.Infof("-- %s --", title)

	driver.Main(func(s screen.Screen) {
		// capture panic as error in this thread
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 4096)
				bufEnd := runtime.Stack(buf, false)
				log.Info("PANIC: ", fmt.Errorf("%v\n%v", rec, string(buf[:bufEnd])))
			}
		}()

		if err := runWindow(title, s, g); err != nil {
			log.Info("Error: app.runWindow(): ", err)
		} else {
			log.Info("...quiting correctly")
		}
	})
}

func runWindow(title string, s screen.Screen, g *nitro.Game) error {
	conf := g.Config()
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  conf.Width,
		Height: conf.Height,
		Title:  title,
	})
	if err != nil {
		return fmt.Errorf("NewWindow FAIL: %w", err)
	}
	defer w.Release()

	fps := FpsLimitter{EventDeque: w, FPS: conf.MaxFPS}
	events := g.Manager().Events()

	var (
		buf      screen.Buffer
		lastTick time.Time
	)
	defer func() {
		if buf != nil {
			buf.Release()
		}
	}()

	for {
		e := w.NextEvent()
		if e = fps.Filter(e); e == nil {
			continue
		}

		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
			if e.Crosses(lifecycle.StageVisible) == lifecycle.CrossOn {
				w.Send(paint.Event{})
			}

		case key.Event:
			k := translateKey(e.Code)
			if k == scene.KeyUnknown {
				break
			}
			switch e.Direction {
			case key.DirPress:
				events.PushKeyDown(k)
			case key.DirRelease:
				events.PushKeyUp(k)
			}

		case mouse.Event:
			events.MousePos = image.Pt(int(e.X), int(e.Y))
			switch e.Button {
			case mouse.ButtonWheelUp:
				events.WheelDY++
			case mouse.ButtonWheelDown:
				events.WheelDY--
			default:
				if b := translateButton(e.Button); b != 0 {
					switch e.Direction {
					case mouse.DirPress:
						events.PushMouseDown(b)
					case mouse.DirRelease:
						events.PushMouseUp(b)
					}
				}
			}

		case size.Event:
			sz := e.Size()
			if sz.X <= 0 || sz.Y <= 0 {
				break
			}
			if buf != nil {
				buf.Release()
			}
			buf, err = s.NewBuffer(sz)
			if err != nil {
				return fmt.Errorf("NewBuffer FAIL: %w", err)
			}
			g.Resize(sz)

		case paint.Event:
			if buf == nil {
				// no size event yet, nothing to draw on.
				w.Send(paint.Event{})
				break
			}
			now := time.Now()
			dt := maxFrameDelta
			if !lastTick.IsZero() {
				dt = now.Sub(lastTick).Seconds()
				if dt > maxFrameDelta {
					dt = maxFrameDelta
				}
			}
			lastTick = now

			clearBuffer(buf.RGBA())
			if err := g.Tick(dt, buf.RGBA()); err != nil {
				return fmt.Errorf("game tick failed: %w", err)
			}
			w.Upload(image.Point{}, buf, buf.Bounds())
			w.Publish()

			if g.Quitting() {
				return nil
			}
			w.Send(paint.Event{})

		case error:
			return e
		}
	}
}

func clearBuffer(m *image.RGBA) {
	draw.Draw(m, m.Bounds(), image.Black, image.Point{}, draw.Src)
}

func translateKey(code key.Code) scene.Key {
	switch code {
	case key.CodeSpacebar:
		return scene.KeySpace
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return scene.KeyEnter
	case key.CodeEscape:
		return scene.KeyEscape
	case key.CodeUpArrow:
		return scene.KeyUp
	case key.CodeDownArrow:
		return scene.KeyDown
	case key.CodeLeftArrow:
		return scene.KeyLeft
	case key.CodeRightArrow:
		return scene.KeyRight
	}
	return scene.KeyUnknown
}

func translateButton(b mouse.Button) scene.MouseButton {
	switch b {
	case mouse.ButtonLeft:
		return scene.MouseLeft
	case mouse.ButtonMiddle:
		return scene.MouseMiddle
	case mouse.ButtonRight:
		return scene.MouseRight
	}
	return 0
}
