// Package loader fetches and parses scene assets off the main goroutine
// and reports their lifecycle as events.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/internal/gltfscene"
	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

// ErrCanceled is carried by EventCanceled.
var ErrCanceled = errors.New("load canceled")

// progressStep is the smallest progress increase worth an event.
const progressStep = 0.01

// EventKind identifies a load lifecycle event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventProgress
	EventLoaded
	EventFailed
	EventCanceled
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventLoaded:
		return "loaded"
	case EventFailed:
		return "failed"
	case EventCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Terminal reports whether no further events follow for the request.
func (k EventKind) Terminal() bool {
	return k == EventLoaded || k == EventFailed || k == EventCanceled
}

// Event is one step of a load. Every request produces EventStarted, zero
// or more EventProgress with non-decreasing Progress, then exactly one
// terminal event.
type Event struct {
	Kind      EventKind
	View      int
	RequestID uuid.UUID
	Name      string
	Progress  float64 // [0, 1]
	Model     *scene.Model
	Err       error
}

// Request describes one model to load.
type Request struct {
	Name      string
	AssetPath string
	Format    string // empty: derived from AssetPath
	Frame     FrameOptions
}

// Handle refers to an in-flight load.
type Handle struct {
	ID     uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel aborts the load. It is safe to call more than once.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed after the terminal event has been delivered.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Loader runs at most one load at a time for one viewport; starting a new
// load cancels the previous one.
type Loader struct {
	view    int
	fetcher Fetcher
	events  chan<- Event
	log     *zap.Logger

	mu      sync.Mutex
	current *Handle
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// New creates a loader for view that delivers events on events.
func New(view int, fetcher Fetcher, events chan<- Event) *Loader {
	return &Loader{
		view:    view,
		fetcher: fetcher,
		events:  events,
		log:     logger.Named("loader").With(zap.Int("view", view)),
		closed:  make(chan struct{}),
	}
}

// Load starts req asynchronously and returns its handle. Any previous
// load of this loader is canceled first.
func (l *Loader) Load(ctx context.Context, req Request) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{ID: uuid.New(), cancel: cancel, done: make(chan struct{})}

	l.mu.Lock()
	prev := l.current
	l.current = h
	l.mu.Unlock()

	// The superseded request still ends with EventCanceled; consumers
	// drop it by RequestID.
	if prev != nil {
		prev.Cancel()
	}

	l.wg.Add(1)
	go l.run(ctx, h, req)
	return h
}

// Current returns the handle of the latest load, or nil.
func (l *Loader) Current() *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Cancel aborts the current load, if any.
func (l *Loader) Cancel() {
	if h := l.Current(); h != nil {
		h.Cancel()
	}
}

// Close cancels the current load and waits for its goroutine to exit.
// Events not yet delivered are dropped.
func (l *Loader) Close() {
	l.Cancel()
	l.once.Do(func() { close(l.closed) })
	l.wg.Wait()
}

func (l *Loader) run(ctx context.Context, h *Handle, req Request) {
	defer l.wg.Done()
	defer close(h.done)
	defer h.cancel()

	log := l.log.With(zap.String("model", req.Name), zap.Stringer("request", h.ID))
	base := Event{View: l.view, RequestID: h.ID, Name: req.Name}

	emit := func(ev Event) {
		select {
		case l.events <- ev:
		case <-l.closed:
		}
	}

	log.Info("loading model", zap.String("path", req.AssetPath))
	start := base
	start.Kind = EventStarted
	emit(start)

	model, err := l.load(ctx, req, func(f float64) {
		if ctx.Err() != nil {
			return
		}
		ev := base
		ev.Kind = EventProgress
		ev.Progress = f
		emit(ev)
	})

	end := base
	switch {
	case ctx.Err() != nil:
		end.Kind = EventCanceled
		end.Err = fmt.Errorf("%w: %w", ErrCanceled, context.Cause(ctx))
		log.Debug("load canceled")
	case err != nil:
		end.Kind = EventFailed
		end.Err = err
		log.Error("load failed", zap.Error(err))
	default:
		end.Kind = EventLoaded
		end.Progress = 1
		end.Model = model
		log.Info("model loaded",
			zap.Int("parts", len(model.Parts())),
			zap.Int("triangles", model.Triangles()),
			zap.Float32("scale", model.AppliedScale()),
			zap.Float32("radius", model.Radius()))
	}
	emit(end)
}

// load fetches, parses and frames one asset. Panics are turned into
// errors so a malformed asset cannot take down the viewer.
func (l *Loader) load(ctx context.Context, req Request, progress ProgressFunc) (model *scene.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loading %s: panic: %v", req.Name, r)
		}
	}()

	var last float64
	data, err := l.fetcher.Fetch(ctx, req.AssetPath, func(f float64) {
		if f >= 1 || f-last >= progressStep {
			last = f
			progress(f)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", req.AssetPath, err)
	}

	format := req.Format
	if format == "" {
		format = gltfscene.FormatOf(req.AssetPath)
	}
	doc, err := gltfscene.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", req.AssetPath, err)
	}
	if err := l.resolveBuffers(ctx, req, doc); err != nil {
		return nil, err
	}
	parsed, err := gltfscene.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", req.AssetPath, err)
	}

	framing, err := Frame(parsed.Bounds, req.Frame)
	if err != nil {
		return nil, fmt.Errorf("framing %s: %w", req.Name, err)
	}

	parts := make([]scene.Part, len(parsed.Parts))
	for i, p := range parsed.Parts {
		parts[i] = scene.Part{Name: p.Name, Bounds: p.Bounds}
		if g := p.Geometry; g != nil {
			parts[i].Mesh = scene.NewMesh(g.Positions, g.Indices)
		}
	}
	return scene.NewModel(req.Name, parts, framing), nil
}

// resolveBuffers fetches the external buffers of doc next to the asset. A
// buffer that cannot be fetched leaves its parts drawn as bounds only.
func (l *Loader) resolveBuffers(ctx context.Context, req Request, doc *gltf.Document) error {
	dir := path.Dir(req.AssetPath)
	for i, uri := range gltfscene.ExternalBuffers(doc) {
		data, err := l.fetcher.Fetch(ctx, path.Join(dir, uri), nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.log.Warn("buffer unavailable, drawing bounds only",
				zap.String("model", req.Name),
				zap.String("uri", uri),
				zap.Error(err))
			continue
		}
		doc.Buffers[i].Data = data
	}
	return nil
}
