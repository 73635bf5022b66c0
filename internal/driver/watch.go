package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"esspy/internal/logger"
	"esspy/internal/project"
	"esspy/internal/source"
)

// DefaultDebounce is how long Watch waits for a burst of changes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange after esspy sources, Go sources or the project
// manifest under dir change. Bursts of events within debounce produce one
// call. Calls never overlap and none happens after Watch returns. New
// directories are watched as they appear. Watch blocks until ctx is done and
// returns nil then.
func Watch(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer w.Close()

	if err := watchTree(w, dir); err != nil {
		return err
	}

	// таймер только будит цикл; onChange всегда вызывается из него
	fire := make(chan struct{}, 1)
	var timer *time.Timer
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fire:
			if ctx.Err() == nil {
				onChange()
			}
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(w, ev.Name); err != nil {
						logger.Warnw("watch: cannot follow new directory", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			if !watched(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			logger.Debugw("watch: change", "file", ev.Name, "op", ev.Op.String())
			schedule()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watch: watcher error", "error", err)
		}
	}
}

func watched(path string) bool {
	base := filepath.Base(path)
	return source.IsSourcePath(path) || (strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")) || base == project.ManifestName
}

func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return errors.Wrapf(err, "watching %s", path)
		}
		return nil
	})
}
