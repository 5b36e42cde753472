package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/model"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// modelWatcher reports changes to model files under a directory tree.
type modelWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// newModelWatcher watches dir and every directory below it.
func newModelWatcher(dir string) (*modelWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "cannot start file watcher")
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		w.Close()
		return nil, alerr.Wrap(alerr.ErrModelLoad, err, "cannot watch models directory").
			WithFile(dir, 0)
	}
	return &modelWatcher{watcher: w, debounce: watchDebounce}, nil
}

func (m *modelWatcher) Close() error {
	return m.watcher.Close()
}

// run calls onChange once per burst of model file events until ctx is done.
func (m *modelWatcher) run(ctx context.Context, onChange func()) {
	timer := time.NewTimer(m.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := m.watcher.Add(event.Name); err != nil {
						slog.Warn("cannot watch directory", "path", event.Name, "error", err)
					}
				}
			}
			if isModelEvent(event) {
				timer.Reset(m.debounce)
			}

		case <-timer.C:
			onChange()

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

func isModelEvent(event fsnotify.Event) bool {
	if !model.IsModelFile(event.Name) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
