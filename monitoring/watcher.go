// Package monitoring watches the startup artifacts. Loaded state is never
// swapped at runtime; a change on disk only produces a restart notice.
package monitoring

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeFunc is called with the watched path and the operation seen.
type ChangeFunc func(path string, op fsnotify.Op)

type ArtifactWatcher struct {
	watcher  *fsnotify.Watcher
	targets  map[string]bool
	onChange ChangeFunc
	logger   *zap.Logger
}

// NewArtifactWatcher watches the parent directories of paths, so files that
// are replaced by rename (as most deploy tools do) are still noticed.
func NewArtifactWatcher(paths []string, onChange ChangeFunc, logger *zap.Logger) (*ArtifactWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	aw := &ArtifactWatcher{
		watcher:  w,
		targets:  make(map[string]bool, len(paths)),
		onChange: onChange,
		logger:   logger,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, err
		}
		aw.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return aw, nil
}

// Run blocks until ctx is done or the watcher is closed.
func (aw *ArtifactWatcher) Run(ctx context.Context) {
	defer aw.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-aw.watcher.Events:
			if !ok {
				return
			}
			aw.handle(event)
		case err, ok := <-aw.watcher.Errors:
			if !ok {
				return
			}
			aw.logger.Warn("artifact watcher error", zap.Error(err))
		}
	}
}

func (aw *ArtifactWatcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil || !aw.targets[abs] {
		return
	}
	aw.logger.Warn("startup artifact changed on disk; restart the service to load it",
		zap.String("path", abs),
		zap.String("op", event.Op.String()))
	if aw.onChange != nil {
		aw.onChange(abs, event.Op)
	}
}
