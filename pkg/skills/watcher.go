package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/skilletlabs/skillet/pkg/logger"
)

// Watcher keeps the index and caches fresh without waiting for the
// staleness window: filesystem events under the skills root trigger
// incremental refreshes of the touched skill.
type Watcher struct {
	root   string
	loader *Loader
	fw     *fsnotify.Watcher
}

// NewWatcher creates a watcher over the skills root. Existing skill
// directories are watched as well so edits to their SKILL.md are seen.
func NewWatcher(root string, loader *Loader) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create filesystem watcher")
	}
	if err := fw.Add(root); err != nil {
		fw.Close()
		return nil, errors.Wrap(err, "watch skills root")
	}

	if entries, err := os.ReadDir(root); err == nil {
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			_ = fw.Add(filepath.Join(root, e.Name()))
		}
	}

	return &Watcher{root: root, loader: loader, fw: fw}, nil
}

// Run processes events until the context is cancelled or the watcher
// is closed. Refresh failures are logged, never fatal.
func (w *Watcher) Run(ctx context.Context) error {
	log := logger.G(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := w.skillName(event.Name)
			if name == "" {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fw.Add(event.Name)
				}
			}
			log.WithField("skill", name).Debug("skills directory changed, refreshing")
			if err := w.loader.Refresh(ctx, name); err != nil {
				log.WithError(err).WithField("skill", name).Warn("failed to refresh skill after change")
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("skills watcher error")
		}
	}
}

// skillName maps an event path to the owning skill directory name.
// Events for the index file or hidden entries return "".
func (w *Watcher) skillName(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return ""
	}
	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	if first == "." || first == ".." || first == IndexFileName || strings.HasPrefix(first, ".") {
		return ""
	}
	return first
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
