package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the URL source file and invokes onChange (after a
// debounce window) whenever it is rewritten. The route table is fixed at
// startup, so a change cannot be applied live; the watcher exists to make
// the staleness visible — it logs that a restart is required and lets the
// caller bump a metric.
//
// Watch returns after starting the watcher goroutine; the goroutine stops
// when ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating source watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return fmt.Errorf("watching url source %q: %w", path, err)
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	logger.Info("url source watcher started", "path", path, "debounce", debounce)

	go func() {
		defer w.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				} else {
					timer.Reset(debounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("source watcher error", "error", err)
			case <-fire:
				logger.Warn("url source changed on disk; routes are fixed at startup, restart to apply",
					"path", path,
				)
				if onChange != nil {
					onChange()
				}
			}
		}
	}()
	return nil
}
