package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/script"
	"github.com/fsnotify/fsnotify"
)

// Debounce is the quiet period after the last script change before a rebuild.
const Debounce = 100 * time.Millisecond

// Watch rebuilds whenever a build script in the scripts directory changes,
// calling onBuild after each build. Builds never overlap. Watch returns nil
// when ctx is done.
func (e *Engine) Watch(ctx context.Context, onBuild func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(e.cfg.ScriptsDir); err != nil {
		return err
	}
	e.logger.Debug("watching scripts", "dir", e.cfg.ScriptsDir)

	trigger := make(chan string, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != script.Ext {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(Debounce, func() {
				select {
				case trigger <- name:
				default:
				}
			})

		case name := <-trigger:
			e.logger.Debug("script changed, rebuilding", "file", name)
			res, err := e.Build(ctx)
			if ctx.Err() != nil {
				return nil
			}
			onBuild(res, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", "error", err)
		}
	}
}
