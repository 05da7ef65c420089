package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before triggering a rebuild.
const DefaultDebounce = 2 * time.Second

// Watch rebuilds the graph whenever files change under rootPath. Every
// rebuild is a full rebuild published by swap; there is no incremental
// update path. Blocks until the context is cancelled.
func (e *Engine) Watch(ctx context.Context, rootPath string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, rootPath); err != nil {
		return err
	}

	var timer *time.Timer
	rebuild := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watch error", "error", err)

		case <-rebuild:
			if err := e.BuildGraph(ctx, rootPath); err != nil {
				if ctx.Err() != nil {
					return err
				}
				e.logger.Warn("rebuild failed", "error", err)
			}
		}
	}
}

// addRecursive watches every directory under root. Directories that cannot
// be listed are skipped.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				// The root itself is unreadable.
				return err
			}
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return filepath.SkipDir
			}
		}
		return nil
	})
}
