// Package nitro ties the player together: asset store, locale bundle,
// fonts, save repository and the scene stack, behind one Game facade the
// window loop drives.
package nitro

import (
	"fmt"
	"image"

	"golang.org/x/image/font"

	"github.com/FoolCoder-code/Nitro-Express/asset"
	"github.com/FoolCoder-code/Nitro-Express/config"
	"github.com/FoolCoder-code/Nitro-Express/filesystem"
	"github.com/FoolCoder-code/Nitro-Express/locale"
	"github.com/FoolCoder-code/Nitro-Express/save"
	"github.com/FoolCoder-code/Nitro-Express/scene"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
	"github.com/FoolCoder-code/Nitro-Express/view"
)

// DefaultEntryScene is the scene id a new game starts from.
const DefaultEntryScene = "prologue"

// knownLanguages are the codes the settings screen offers when their
// bundle is installed.
var knownLanguages = []string{"en", "ja"}

// Game owns every subsystem of the running player.
type Game struct {
	conf  *config.Config
	fs    filesystem.FileSystem
	store *asset.Store
	saves *save.Repository

	loc   *locale.Data
	fonts *view.FaceSet

	manager *scene.Manager
	watcher filesystem.Watcher
}

// NewGame wires the player up from a configuration and a base directory
// filesystem, leaving the title scene on the stack.
func NewGame(conf *config.Config, fs filesystem.FileSystem) (*Game, error) {
	conf.Normalize()
	g := &Game{conf: conf, fs: fs}

	store, err := asset.OpenStore(fs)
	if err != nil {
		return nil, err
	}
	g.store = store
	g.saves = save.NewRepository(fs)

	if err := g.loadLocale(conf.Language); err != nil {
		return nil, err
	}

	readFlags, err := g.saves.LoadReadFlags()
	if err != nil {
		log.Infof("game: %v, starting with a fresh read state", err)
		readFlags = save.NewReadFlags()
	}

	services := &scene.Services{
		Scripts:    store,
		Images:     store,
		Texts:      g,
		Config:     conf,
		Saves:      g.saves,
		ReadFlags:  readFlags,
		EntryScene: DefaultEntryScene,
		Languages:  locale.Available(fs, knownLanguages),
		SaveConfig: func() error { return conf.Save(fs, config.File) },
		SetLanguage: func(code string) error {
			return g.loadLocale(code)
		},
	}
	g.manager = scene.NewManager(services, image.Point{X: conf.Width, Y: conf.Height})
	g.manager.Push(scene.NewTitleScene(g.manager))

	g.startLocaleWatcher()
	return g, nil
}

func (g *Game) loadLocale(code string) error {
	code = locale.Resolve(g.fs, code, knownLanguages)
	loc, err := locale.Load(g.fs, code)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.loc = loc
	g.fonts = nil
	if path := loc.FontPath(); path != "" {
		fonts, err := view.LoadFaceSet(g.fs, path)
		if err != nil {
			log.Infof("game: %v, falling back to the builtin face", err)
		} else {
			g.fonts = fonts
		}
	}
	log.Debugf("game: locale %s loaded", code)
	return nil
}

// startLocaleWatcher reloads the active bundle when its file changes on
// disk, so translators see edits without restarting. Best effort; a
// failing watcher only disables live reload.
func (g *Game) startLocaleWatcher() {
	pr, _ := g.fs.(filesystem.PathResolver)
	w, err := filesystem.NewWatcher(pr)
	if err != nil {
		log.Infof("game: locale watch unavailable: %v", err)
		return
	}
	if err := w.Watch(locale.Dir); err != nil {
		log.Infof("game: locale watch unavailable: %v", err)
		w.Close()
		return
	}
	g.watcher = w
}

// pollWatcher drains the pending file events without blocking the frame.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ev, ok := <-g.watcher.Events():
			if !ok {
				g.watcher = nil
				return
			}
			log.Debugf("game: locale dir changed: %s", ev)
			if err := g.loadLocale(g.conf.Language); err != nil {
				log.Infof("game: live reload: %v", err)
				continue
			}
			g.manager.MarkLocaleDirty()
		case err, ok := <-g.watcher.Errors():
			if !ok {
				g.watcher = nil
				return
			}
			log.Infof("game: locale watch: %v", err)
		default:
			return
		}
	}
}

// Manager exposes the scene stack to the window loop for input feeding.
func (g *Game) Manager() *scene.Manager { return g.manager }

// Config returns the live configuration.
func (g *Game) Config() *config.Config { return g.conf }

// Tick runs one frame onto dst.
func (g *Game) Tick(dt float64, dst *image.RGBA) error {
	g.pollWatcher()
	return g.manager.Tick(dt, dst)
}

// Quitting reports whether the player asked to shut down.
func (g *Game) Quitting() bool {
	return g.manager.Quitting() || g.manager.Len() == 0
}

// Resize adapts the running scenes to a new frame size.
func (g *Game) Resize(size image.Point) {
	g.manager.Resize(size)
}

// Close releases the watcher and tears the stack down.
func (g *Game) Close() error {
	if g.watcher != nil {
		g.watcher.Close()
		g.watcher = nil
	}
	g.manager.Clear()
	return nil
}

// Text implements scene.TextProvider from the active locale bundle.
func (g *Game) Text(path ...string) (string, error) {
	return g.loc.Text(path...)
}

// Face implements scene.TextProvider from the bundle's font.
func (g *Game) Face(sizePx int) font.Face {
	if g.fonts == nil {
		return view.BasicFace()
	}
	return g.fonts.Face(sizePx)
}
