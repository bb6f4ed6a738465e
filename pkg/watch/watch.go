// Package watch reruns a callback when a file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long events are coalesced before the callback runs.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls OnChange after Path is written, created or renamed. Editors that save
// by replacing the file are handled by watching the parent directory.
type Watcher struct {
	Path     string
	OnChange func() error
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run blocks until ctx is cancelled. Callback errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.Path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("watching for changes", "path", w.Path)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			timer = time.After(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer:
			timer = nil
			if err := w.OnChange(); err != nil {
				logger.Error("regenerate failed", "err", err)
			}
		}
	}
}

// Run watches path with the default debounce.
func Run(ctx context.Context, path string, onChange func() error, logger *slog.Logger) error {
	w := &Watcher{Path: path, OnChange: onChange, Logger: logger}
	return w.Run(ctx)
}
