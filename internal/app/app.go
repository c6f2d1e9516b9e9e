// Package app runs the viewer's window, input and frame loop around a
// dual-view session.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/catalog"
	"github.com/Faultbox/anatomy-viewer/internal/config"
	"github.com/Faultbox/anatomy-viewer/internal/engine/input"
	"github.com/Faultbox/anatomy-viewer/internal/engine/renderer"
	"github.com/Faultbox/anatomy-viewer/internal/engine/window"
	"github.com/Faultbox/anatomy-viewer/internal/logger"
	"github.com/Faultbox/anatomy-viewer/internal/session"
	"github.com/Faultbox/anatomy-viewer/internal/viewport"
)

const (
	intensityStep  = 0.1
	intensityLimit = 4
)

// titleInfo is the info display. Picked part names go to the window title.
type titleInfo struct {
	text string
}

func (t *titleInfo) ShowInfo(text string) { t.text = text }
func (t *titleInfo) HideInfo()            { t.text = "" }

type drag struct {
	active bool
	view   int
	button uint8
}

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	panels   [session.Views]*renderer.Panel
	hud      *renderer.HUD
	input    *input.Input
	session  *session.Session
	watcher  *catalog.Watcher

	info    titleInfo
	drag    drag
	capture bool
	width   int
	height  int
	running bool
	closed  bool
}

// New opens the window, creates the GL renderer and starts a session on
// the configured default model.
func New(cfg *config.Config, cat *catalog.Catalog) (*App, error) {
	a := &App{
		cfg:     cfg,
		catalog: cat,
		log:     logger.Named("app"),
	}
	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("modelsRoot", cfg.Viewer.ModelsRoot),
	)

	var err error
	a.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(dw, dh)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	for i := range a.panels {
		a.panels[i] = a.renderer.NewPanel()
	}
	a.hud = a.renderer.NewHUD()

	a.session, err = session.New(session.Options{
		Config:        cfg,
		Catalog:       cat,
		Renderers:     [session.Views]viewport.Renderer{a.panels[0], a.panels[1]},
		Progress:      a.hud,
		SyncIndicator: a.hud,
		Info:          &a.info,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	a.input = input.New()
	w, h := a.window.Size()
	a.layout(w, h)

	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		a.watcher, err = catalog.Watch(cfg.Catalog.Path, catalog.DefaultDebounce, a.onCatalogReload)
		if err != nil {
			a.log.Warn("catalog watch disabled", zap.Error(err))
		}
	}

	if err := a.session.SelectModel(cfg.Viewer.DefaultModel); err != nil {
		a.Close()
		return nil, fmt.Errorf("default model: %w", err)
	}

	a.log.Info("viewer initialized")
	return a, nil
}

// onCatalogReload runs on the watcher's goroutine. Catalog is safe for
// concurrent use, so the new presets are swapped in directly and apply to
// the next selection.
func (a *App) onCatalogReload(c *catalog.Catalog, err error) {
	if err != nil {
		return
	}
	a.catalog.Replace(c)
}

// Run drives the frame loop until the window closes.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handle(ev)
		}

		a.session.Update()
		a.render()
		if a.capture {
			a.screenshot()
		}
		a.window.SetTitle(a.title())
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (a *App) render() {
	a.renderer.Begin()
	a.session.Render()
	a.hud.Draw()
	a.renderer.End()
}

// screenshot reads the frame just rendered, before the swap.
func (a *App) screenshot() {
	a.capture = false
	path, err := a.renderer.Screenshot(a.cfg.Viewer.ScreenshotDir, "anatomy")
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

func (a *App) layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height

	dw, dh := a.window.DrawableSize()
	a.renderer.Resize(dw, dh)
	ratio := float32(dw) / float32(width)

	xs, ws := panelRects(width)
	for i, p := range a.panels {
		p.SetOrigin(xs[i], 0)
		p.SetPixelRatio(ratio)
		if err := a.session.View(i).Resize(ws[i], height); err != nil {
			a.log.Warn("panel resize failed", zap.Int("view", i), zap.Error(err))
		}
	}
}

func (a *App) handle(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		a.layout(ev.Width, ev.Height)

	case input.EventKeyDown:
		a.handleKey(ev.Key)

	case input.EventMouseDown:
		view, x := panelAt(ev.MouseX, a.width)
		a.drag = drag{active: true, view: view, button: ev.Button}
		if ev.Button == input.ButtonLeft {
			a.pick(view, x, ev.MouseY)
		}

	case input.EventMouseUp:
		if ev.Button == a.drag.button {
			a.drag.active = false
		}

	case input.EventMouseMove:
		if !a.drag.active || !a.input.Held(a.drag.button) {
			return
		}
		controls := a.session.View(a.drag.view).Controls()
		switch a.drag.button {
		case input.ButtonLeft:
			controls.Rotate(float32(ev.DeltaX), float32(ev.DeltaY))
		case input.ButtonRight, input.ButtonMiddle:
			controls.Pan(float32(ev.DeltaX), float32(ev.DeltaY))
		}

	case input.EventMouseWheel:
		view, _ := panelAt(ev.MouseX, a.width)
		a.session.View(view).Controls().Dolly(ev.Wheel)
	}
}

func (a *App) pick(view, x, y int) {
	for _, p := range a.panels {
		p.Highlight("")
	}
	if sel, ok := a.session.Pick(view, float32(x), float32(y)); ok {
		a.panels[view].Highlight(sel.Part)
	}
}

func (a *App) handleKey(key sdl.Keycode) {
	switch key {
	case sdl.K_ESCAPE:
		a.running = false

	case sdl.K_s:
		a.session.ToggleSync()

	case sdl.K_f:
		a.reframe()

	case sdl.K_F12:
		a.capture = true

	case sdl.K_TAB:
		a.selectModel(nextModel(a.catalog.Names(), a.session.Model()))

	case sdl.K_EQUALS, sdl.K_PLUS, sdl.K_KP_PLUS:
		a.session.SetAmbientIntensity(stepIntensity(a.session.AmbientIntensity(), intensityStep, intensityLimit))
	case sdl.K_MINUS, sdl.K_KP_MINUS:
		a.session.SetAmbientIntensity(stepIntensity(a.session.AmbientIntensity(), -intensityStep, intensityLimit))
	case sdl.K_RIGHTBRACKET:
		a.session.SetDirectionalIntensity(stepIntensity(a.session.DirectionalIntensity(), intensityStep, intensityLimit))
	case sdl.K_LEFTBRACKET:
		a.session.SetDirectionalIntensity(stepIntensity(a.session.DirectionalIntensity(), -intensityStep, intensityLimit))

	default:
		if key >= sdl.K_1 && key <= sdl.K_9 {
			names := a.catalog.Names()
			if i := int(key - sdl.K_1); i < len(names) {
				a.selectModel(names[i])
			}
		}
	}
}

func (a *App) selectModel(name string) {
	if name == "" {
		return
	}
	for _, p := range a.panels {
		p.Highlight("")
	}
	if err := a.session.SelectModel(name); err != nil {
		a.log.Warn("model selection failed", zap.String("model", name), zap.Error(err))
	}
}

// reframe restores the initial camera placement of every loaded model.
func (a *App) reframe() {
	for i := range session.Views {
		v := a.session.View(i)
		if m := v.Scene().Model(); m != nil {
			v.ApplyFraming(m.Framing())
		}
	}
}

func (a *App) title() string {
	parts := []string{a.cfg.Window.Title}
	if p, err := a.catalog.Lookup(a.session.Model()); err == nil {
		parts = append(parts, p.DisplayLabel())
	}
	if a.info.text != "" {
		parts = append(parts, a.info.text)
	}
	if a.session.Loading() {
		parts = append(parts, fmt.Sprintf("loading %.0f%%", a.session.Progress()))
	}
	if a.session.SyncEnabled() {
		parts = append(parts, "sync on")
	} else {
		parts = append(parts, "sync off")
	}
	return strings.Join(parts, " | ")
}

// Close releases the session and GL resources. Calling it again is a
// no-op.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.log.Info("closing viewer")

	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.session != nil {
		a.session.Close()
	}
	for _, p := range a.panels {
		if p != nil {
			p.Release()
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
