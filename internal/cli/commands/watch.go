package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/leapcube/internal/compiler"
)

// watchDebounce coalesces bursts of events (editors often write several times).
var watchDebounce = 100 * time.Millisecond

// watcher reports schema and manifest changes below a set of directories.
type watcher struct {
	dirs      []string
	manifests []string
	logger    *slog.Logger
	onChange  func(path string)

	// ready, when set, is closed once all directories are watched.
	ready chan struct{}
}

func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range w.dirs {
		if err := watchDir(fsw, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	manifests := make(map[string]bool, len(w.manifests))
	for _, m := range w.manifests {
		manifests[filepath.Clean(m)] = true
		// Watch the directory: editors replace files instead of writing them.
		if err := fsw.Add(filepath.Dir(m)); err != nil {
			w.logger.Warn("failed to watch manifest", "path", m, "error", err)
		}
	}

	if w.ready != nil {
		close(w.ready)
	}

	var debounce *time.Timer
	fire := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skipWatchDir(info.Name()) {
						w.addDir(fsw, event.Name)
					}
					continue
				}
			}

			name := filepath.Clean(event.Name)
			if !strings.HasSuffix(name, compiler.SchemaExt) && !manifests[name] {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- name:
				default:
				}
			})

		case path := <-fire:
			w.onChange(path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// addDir watches a directory created while running. Failures are logged; the
// rest of the tree stays watched.
func (w *watcher) addDir(fsw *fsnotify.Watcher, dir string) {
	if err := watchDir(fsw, dir); err != nil {
		w.logger.Warn("failed to watch directory", "path", dir, "error", err)
	}
}

// watchDir recursively adds a directory to the watcher.
func watchDir(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipWatchDir(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func skipWatchDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}
