// Package watcher triggers full index rebuilds when knowledge-base
// directories change on disk. There are no incremental updates; any change
// schedules one debounced rebuild-and-swap.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches knowledge-base directories and fires a debounced callback
// on any change.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	onChange func()
	logger   *zap.Logger // optional; when set, logs watch events
	fsw      *fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output (events seen, rebuilds fired).
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher over dirs. onChange runs at most once per
// debounce window, after events settle.
func NewWatcher(dirs []string, debounce time.Duration, onChange func(), opts ...WatcherOption) *Watcher {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	w := &Watcher{
		dirs:     dirs,
		debounce: debounce,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching and returns immediately; the event loop runs until
// ctx is canceled. Missing directories are skipped.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	for _, dir := range w.dirs {
		w.addRecursive(dir)
	}
	go w.loop(ctx)
	return nil
}

// addRecursive watches dir and all subdirectories. Errors (e.g. missing
// directories) are logged and skipped.
func (w *Watcher) addRecursive(dir string) {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil && w.logger != nil {
		w.logger.Debug("watch skip directory", zap.String("dir", dir), zap.Error(err))
	}
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			_ = w.fsw.Close()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Debug("watch event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			}
			// New subdirectories must be watched too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addRecursive(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watch error", zap.Error(err))
			}
		case <-fire:
			timer = nil
			fire = nil
			if w.logger != nil {
				w.logger.Info("knowledge base changed, triggering rebuild")
			}
			w.onChange()
		}
	}
}
