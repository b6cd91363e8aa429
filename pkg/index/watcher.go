package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Watcher keeps an Index in sync with a set of root directories. Changes
// are collected until no event has arrived for the debounce period, then
// each affected root is synced once.
type Watcher struct {
	idx      *Index
	watcher  *fsnotify.Watcher
	roots    []string
	exts     []string
	debounce time.Duration
	log      *zap.Logger

	// OnSync, if set, is called after every sync of a root, including the
	// initial one.
	OnSync func(root string, stats *SyncStats, err error)

	dirty map[string]bool
}

// NewWatcher creates a watcher for roots. It does not watch anything
// until Run is called.
func NewWatcher(idx *Index, roots, exts []string, debounce time.Duration) (*Watcher, error) {
	abs, err := absAll(roots)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		idx:      idx,
		watcher:  fsWatcher,
		roots:    abs,
		exts:     exts,
		debounce: debounce,
		log:      idx.log,
		dirty:    make(map[string]bool),
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run watches the roots, syncs each of them once, then re-syncs roots as
// their files change. It returns when ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	for _, root := range w.roots {
		if err := w.watchDirRecursive(root); err != nil {
			return errors.Wrapf(err, "watching %s", root)
		}
		w.log.Info("watching", zap.String("root", root))
	}
	for _, root := range w.roots {
		w.sync(ctx, root)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("change", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			root := w.rootOf(event.Name)
			if root == "" {
				continue
			}
			w.dirty[root] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			for root := range w.dirty {
				delete(w.dirty, root)
				w.sync(ctx, root)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) sync(ctx context.Context, root string) {
	stats, err := w.idx.Sync(ctx, []string{root}, w.exts)
	if err != nil {
		w.log.Error("sync failed", zap.String("root", root), zap.Error(err))
	}
	if w.OnSync != nil {
		w.OnSync(root, stats, err)
	}
}

// relevant reports whether an event can change the index. New
// directories are watched as a side effect.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return true
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchDirRecursive(event.Name); err != nil {
				w.log.Warn("cannot watch directory", zap.String("path", event.Name), zap.Error(err))
			}
			return true
		}
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
		return hasExt(event.Name, w.exts)
	}
	return false
}

// rootOf returns the watched root containing path.
func (w *Watcher) rootOf(path string) string {
	for _, root := range w.roots {
		if underAny(path, []string{root}) {
			return root
		}
	}
	return ""
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}
