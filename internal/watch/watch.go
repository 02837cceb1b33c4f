// Package watch re-runs a callback whenever a topology file changes.
//
// Editors often save by writing several times or by replacing the file, so
// events are debounced and the parent directory is watched instead of the
// file itself.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

// Handler is called with the watched path once at start and after every
// settled change. Handler errors are logged and do not stop the watcher.
type Handler func(ctx context.Context, path string) error

// Watcher watches one file.
type Watcher struct {
	path     string
	debounce time.Duration
	handle   Handler
	logger   *log.Logger
}

// New creates a watcher for path. A non-positive debounce uses
// DefaultDebounce and a nil logger uses log.Default().
func New(path string, debounce time.Duration, handle Handler, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{path: abs, debounce: debounce, handle: handle, logger: logger}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run calls the handler once, then again after each change, until ctx is
// done. It returns ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching", "path", w.path, "debounce", w.debounce)

	w.run(ctx)

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.logger.Info("topology changed", "path", w.path)
			w.run(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && abs == w.path
}

func (w *Watcher) run(ctx context.Context) {
	if err := w.handle(ctx, w.path); err != nil {
		w.logger.Error("update failed", "path", w.path, "err", err)
	}
}
