package catalog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

// DefaultDebounce is the quiet period before a changed catalog is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog file when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onReload func(*Catalog, error)
	log      *zap.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	done   chan struct{}
}

// Watch starts watching path. onReload receives the freshly loaded catalog
// (built-in presets overlaid with the file) or the load error. It runs on
// a timer goroutine; callers hand the result to their main loop.
func Watch(path string, debounce time.Duration, onReload func(*Catalog, error)) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory and filter.
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     absPath,
		debounce: debounce,
		onReload: onReload,
		log:      logger.Named("catalog"),
		done:     make(chan struct{}),
	}
	go w.run()

	w.log.Info("watching catalog", zap.String("path", absPath))
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	c, err := Load(w.path)
	if err != nil {
		w.log.Warn("catalog reload failed", zap.String("path", w.path), zap.Error(err))
	} else {
		w.log.Info("catalog reloaded", zap.String("path", w.path), zap.Int("models", c.Len()))
	}
	w.onReload(c, err)
}

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	return err
}
