// Package session ties two viewports, their loaders, camera sync and the
// progress surface into one dual-view session.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/catalog"
	"github.com/Faultbox/anatomy-viewer/internal/config"
	"github.com/Faultbox/anatomy-viewer/internal/engine/picking"
	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/internal/loader"
	"github.com/Faultbox/anatomy-viewer/internal/logger"
	"github.com/Faultbox/anatomy-viewer/internal/progress"
	"github.com/Faultbox/anatomy-viewer/internal/viewport"
	"github.com/Faultbox/anatomy-viewer/internal/viewsync"
)

// Views is the number of panels in a session.
const Views = 2

// eventBuffer is the loader event queue depth shared by both views.
const eventBuffer = 64

// ConfigError reports a missing or invalid session dependency.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("session: %s: %s", e.Field, e.Reason)
}

// InfoDisplay shows the name of the picked part.
type InfoDisplay interface {
	ShowInfo(text string)
	HideInfo()
}

// Options are the dependencies of a session. Fetcher and SyncIndicator
// are optional.
type Options struct {
	Config        *config.Config
	Catalog       *catalog.Catalog
	Renderers     [Views]viewport.Renderer
	Fetcher       loader.Fetcher
	Progress      progress.Indicator
	SyncIndicator viewsync.StateIndicator
	Info          InfoDisplay
}

// Session is a dual-view anatomy session. Apart from Close, its methods
// must be called from the main loop goroutine.
type Session struct {
	cfg     config.ViewerConfig
	catalog *catalog.Catalog

	views    [Views]*viewport.Controller
	loaders  [Views]*loader.Loader
	requests [Views]uuid.UUID
	events   chan loader.Event

	progress *progress.Surface
	sync     *viewsync.Synchronizer
	info     InfoDisplay
	labeler  *picking.Labeler
	lights   scene.Lights

	model  string
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// New validates opts and builds the session. Nothing is loaded until
// SelectModel.
func New(opts Options) (*Session, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	cfg := opts.Config
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = loader.NewFetcher(cfg.Viewer.ModelsRoot)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:      cfg.Viewer,
		catalog:  opts.Catalog,
		events:   make(chan loader.Event, eventBuffer),
		progress: progress.NewSurface(opts.Progress),
		info:     opts.Info,
		labeler:  picking.NewLabeler(cfg.Picking.ReservedNames, cfg.Picking.ReservedPrefixes),
		lights: scene.Lights{
			Ambient:     cfg.Viewer.AmbientIntensity,
			Directional: cfg.Viewer.DirectionalIntensity,
		},
		ctx:    ctx,
		cancel: cancel,
		log:    logger.Named("session"),
	}

	panelW, panelH := max(cfg.Window.Width/Views, 1), cfg.Window.Height
	for i := range s.views {
		v, err := viewport.New(i, opts.Renderers[i], viewport.Options{
			Width:       panelW,
			Height:      panelH,
			FOVDegrees:  cfg.Viewer.FOVDegrees,
			Near:        cfg.Viewer.Near,
			Far:         cfg.Viewer.Far,
			MinDistance: cfg.Viewer.MinDistance,
			MaxDistance: cfg.Viewer.MaxDistance,
			Lights:      s.lights,
		})
		if err != nil {
			cancel()
			return nil, &ConfigError{Field: fmt.Sprintf("viewport %d", i), Reason: err.Error()}
		}
		s.views[i] = v
		s.loaders[i] = loader.New(i, fetcher, s.events)
	}
	s.sync = viewsync.New(s.views[0], s.views[1], cfg.Viewer.SyncEnabled, opts.SyncIndicator)
	opts.Info.HideInfo()

	return s, nil
}

func validate(opts Options) error {
	var errs []error
	missing := func(field string) {
		errs = append(errs, &ConfigError{Field: field, Reason: "is required"})
	}
	if opts.Config == nil {
		missing("config")
	}
	if opts.Catalog == nil {
		missing("catalog")
	}
	for i, r := range opts.Renderers {
		if r == nil {
			missing(fmt.Sprintf("renderer %d", i))
		}
	}
	if opts.Progress == nil {
		missing("progress indicator")
	}
	if opts.Info == nil {
		missing("info display")
	}
	if opts.Config != nil {
		if err := opts.Config.Validate(); err != nil {
			errs = append(errs, &ConfigError{Field: "config", Reason: err.Error()})
		}
	}
	return errors.Join(errs...)
}

// View returns panel i.
func (s *Session) View(i int) *viewport.Controller { return s.views[i] }

// Model returns the identifier of the selected model.
func (s *Session) Model() string { return s.model }

// Loading reports whether the progress surface is visible.
func (s *Session) Loading() bool { return s.progress.Visible() }

// Progress returns the aggregate load percentage.
func (s *Session) Progress() float64 { return s.progress.Percent() }

// SelectModel loads name into the first panel and its catalog pair (or
// name again) into the second. Loads still running are canceled.
func (s *Session) SelectModel(name string) error {
	preset, err := s.catalog.Lookup(name)
	if err != nil {
		return err
	}
	pair, err := s.catalog.PairOf(name)
	if err != nil {
		return fmt.Errorf("model %s: %w", name, err)
	}
	pairPreset, err := s.catalog.Lookup(pair)
	if err != nil {
		return fmt.Errorf("model %s: %w", name, err)
	}

	reqs := [Views]loader.Request{}
	for i, p := range []catalog.Preset{preset, pairPreset} {
		path, err := catalog.AssetPath(p.Name, p.Format)
		if err != nil {
			return err
		}
		reqs[i] = loader.Request{
			Name:      p.Name,
			AssetPath: path,
			Format:    p.Format,
			Frame:     s.frameOptions(p),
		}
	}

	s.model = name
	s.info.HideInfo()
	if preset.AmbientIntensity > 0 {
		s.SetAmbientIntensity(preset.AmbientIntensity)
	} else {
		s.SetAmbientIntensity(s.cfg.AmbientIntensity)
	}

	s.log.Info("selecting model", zap.String("model", name), zap.String("pair", pair))
	s.progress.Begin(Views)
	for i, req := range reqs {
		s.requests[i] = s.loaders[i].Load(s.ctx, req).ID
	}
	return nil
}

func (s *Session) frameOptions(p catalog.Preset) loader.FrameOptions {
	zoom := p.ZoomFactor
	if zoom == 0 {
		zoom = s.cfg.DefaultZoom
	}
	return loader.FrameOptions{
		DesiredSize: s.cfg.DesiredDisplaySize,
		BaseFactor:  p.ScaleFactor,
		Zoom:        zoom,
	}
}

// Update applies pending loader events and runs the sync tick. Call once
// per frame before rendering.
func (s *Session) Update() {
	for {
		select {
		case ev := <-s.events:
			s.handle(ev)
		default:
			s.sync.Tick()
			return
		}
	}
}

func (s *Session) handle(ev loader.Event) {
	if ev.View < 0 || ev.View >= Views || ev.RequestID != s.requests[ev.View] {
		return
	}
	v := s.views[ev.View]

	switch ev.Kind {
	case loader.EventProgress:
		s.progress.Update(ev.View, ev.Progress)
	case loader.EventLoaded:
		v.ShowModel(ev.Model)
		s.progress.Complete(ev.View)
	case loader.EventFailed, loader.EventCanceled:
		v.Scene().Clear()
		s.progress.Fail(ev.View, ev.Err)
	}
}

// Selection is a picked part.
type Selection struct {
	Part  string // node name
	Label string // displayed text
}

// Pick resolves the part under panel-local pixel (x, y) of view and
// updates the info display. Reserved placeholder parts are not selected.
func (s *Session) Pick(view int, x, y float32) (Selection, bool) {
	if view < 0 || view >= Views {
		s.info.HideInfo()
		return Selection{}, false
	}
	hit, ok := s.views[view].Pick(x, y)
	if !ok {
		s.info.HideInfo()
		return Selection{}, false
	}
	text, show := s.labeler.Label(hit.Part.Name)
	if !show {
		s.info.HideInfo()
		return Selection{}, false
	}
	s.log.Debug("picked part", zap.Int("view", view), zap.String("part", hit.Part.Name))
	s.info.ShowInfo(text)
	return Selection{Part: hit.Part.Name, Label: text}, true
}

// SyncEnabled reports whether the cameras are coupled.
func (s *Session) SyncEnabled() bool { return s.sync.Enabled() }

// SetSyncEnabled couples or decouples the cameras.
func (s *Session) SetSyncEnabled(v bool) { s.sync.SetEnabled(v) }

// ToggleSync flips camera coupling and returns the new state.
func (s *Session) ToggleSync() bool { return s.sync.Toggle() }

// AmbientIntensity returns the ambient light intensity of both scenes.
func (s *Session) AmbientIntensity() float32 { return s.lights.Ambient }

// SetAmbientIntensity sets the ambient light of both scenes.
func (s *Session) SetAmbientIntensity(v float32) {
	for _, view := range s.views {
		view.Scene().SetAmbient(v)
	}
	s.lights.Ambient = s.views[0].Scene().Lights().Ambient
}

// DirectionalIntensity returns the directional light intensity.
func (s *Session) DirectionalIntensity() float32 { return s.lights.Directional }

// SetDirectionalIntensity sets the directional light of both scenes.
func (s *Session) SetDirectionalIntensity(v float32) {
	for _, view := range s.views {
		view.Scene().SetDirectional(v)
	}
	s.lights.Directional = s.views[0].Scene().Lights().Directional
}

// Render draws both panels.
func (s *Session) Render() {
	for _, v := range s.views {
		v.RenderFrame()
	}
}

// Close cancels in-flight loads, waits for them and unsubscribes the
// synchronizer.
func (s *Session) Close() {
	s.cancel()
	for _, l := range s.loaders {
		l.Close()
	}
	s.sync.Close()
}
