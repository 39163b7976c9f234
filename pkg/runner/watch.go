package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"

	"github.com/yaklabco/mdtree/internal/logging"
)

// DefaultDebounce is how long a Watcher waits for further changes before
// handing a batch to its callback.
const DefaultDebounce = 200 * time.Millisecond

// WatchFunc handles one batch of changed Markdown files. Paths are
// absolute, sorted, and exist at the time of the call.
type WatchFunc func(ctx context.Context, paths []string) error

// Watcher reports changes to the Markdown files a run with the same
// Options would discover. Directories created later are picked up.
type Watcher struct {
	fsw      *fsnotify.Watcher
	walker   *walker
	roots    []string
	named    map[string]bool
	debounce time.Duration
}

// NewWatcher registers watches for every directory under opts.Paths and
// the parent directory of every named file. A debounce of zero means
// DefaultDebounce.
func NewWatcher(ctx context.Context, opts Options, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	excludes, err := newMatcher(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw: fsw,
		walker: &walker{
			ctx:        ctx,
			workDir:    workDir,
			extensions: opts.effectiveExtensions(),
			excludes:   excludes,
			follow:     opts.FollowSymlinks,
		},
		named:    make(map[string]bool),
		debounce: debounce,
	}

	for _, inputPath := range opts.effectivePaths() {
		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			w.roots = append(w.roots, absPath)
			err = w.addTree(absPath)
		} else {
			w.named[absPath] = true
			err = fsw.Add(filepath.Dir(absPath))
		}
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Close releases the underlying watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers debounced batches of changed files to fn until ctx is done
// or fn fails. Cancellation is not an error. Watch errors are logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context, fn WatchFunc) error {
	logger := logging.FromContext(ctx)
	w.walker.ctx = ctx

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.queue(event, pending) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)

		case <-timerC:
			timer, timerC = nil, nil

			batch := lo.Filter(slices.Sorted(maps.Keys(pending)), func(path string, _ int) bool {
				info, err := os.Stat(path)
				return err == nil && info.Mode().IsRegular()
			})
			clear(pending)
			if len(batch) == 0 {
				continue
			}

			logger.Debug("files changed", logging.FieldPaths, batch)
			if err := fn(ctx, batch); err != nil {
				return err
			}
		}
	}
}

// queue records the files affected by event and reports whether any were.
func (w *Watcher) queue(event fsnotify.Event, pending map[string]struct{}) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}

	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) && w.insideRoot(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return w.queueDir(path, pending)
		}
	}

	if !w.relevant(path) {
		return false
	}
	pending[path] = struct{}{}
	return true
}

// queueDir starts watching a new directory and queues the files already
// in it, which may have been written before the watch was added.
func (w *Watcher) queueDir(dir string, pending map[string]struct{}) bool {
	if isHidden(filepath.Base(dir)) || w.walker.excludes.match(w.walker.rel(dir), true) {
		return false
	}
	if err := w.addTree(dir); err != nil {
		logging.FromContext(w.walker.ctx).Warn("watch directory failed",
			logging.FieldPath, dir,
			logging.FieldError, err,
		)
		return false
	}

	files, err := w.walker.walk(dir)
	if err != nil {
		return false
	}
	for _, file := range files {
		pending[file] = struct{}{}
	}
	return len(files) > 0
}

func (w *Watcher) relevant(path string) bool {
	if w.named[path] {
		return true
	}
	if !w.insideRoot(path) || isHidden(filepath.Base(path)) {
		return false
	}
	return w.walker.matchesFile(path)
}

func (w *Watcher) insideRoot(path string) bool {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addTree watches root and every visible, non-excluded directory below it.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && (isHidden(entry.Name()) || w.walker.excludes.match(w.walker.rel(path), true)) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch directory %s: %w", root, err)
	}
	return nil
}
