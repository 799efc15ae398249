// Package watch re-runs the koans whenever a koan file is saved.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"gokoans/internal/logging"
)

// Handler is called with the files that changed since the last call
type Handler func(ctx context.Context, changed []string) error

// Watcher watches a koan directory tree for changes to Go files
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *zap.Logger
}

// New creates a Watcher for dir. Events closer together than debounce are
// reported as one change.
func New(dir string, debounce time.Duration, logger *zap.Logger) *Watcher {
	logger = logging.OrNop(logger)
	return &Watcher{dir: dir, debounce: debounce, logger: logger}
}

// Run blocks until ctx is done, calling handle after every settled burst of
// changes. Handler errors are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.dir); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New directories are watched too
				_ = w.addTree(watcher, event.Name)
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("koan file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			clear(pending)

			if err := handle(ctx, changed); err != nil {
				w.logger.Warn("re-run failed", zap.Error(err))
			}
		}
	}
}

// addTree watches root and every directory below it, except hidden ones
func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
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
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".go") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
