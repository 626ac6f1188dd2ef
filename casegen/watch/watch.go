// Package watch regenerates shared context sources when C# inputs change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JeremiahSanders/testingutils-xunit-extras/casegen"
	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
	"github.com/JeremiahSanders/testingutils-xunit-extras/logger"
)

// DefaultDebounce is used when no debounce period is configured
const DefaultDebounce = 300 * time.Millisecond

// Callback runs one regeneration pass. runID correlates the pass's log lines; changed
// lists the files whose events triggered it, sorted.
type Callback func(ctx context.Context, runID string, changed []string) error

// Watcher watches source directories and debounces changes into regeneration passes.
// Passes never overlap.
type Watcher struct {
	opts     casegen.LoadOptions
	fsw      *fsnotify.Watcher
	debounce time.Duration
	callback Callback
	files    map[string]bool // explicitly named input files

	mu      sync.Mutex // guards pending and timer
	pending map[string]bool
	timer   *time.Timer

	runMu sync.Mutex     // serializes passes
	wg    sync.WaitGroup // one count per armed timer

	logger *zap.SugaredLogger
}

// New creates a watcher over roots (files or directories). Directories are watched
// recursively, skipping excluded directory names.
func New(roots []string, opts casegen.LoadOptions, debounce time.Duration, callback Callback) (*Watcher, error) {
	if callback == nil {
		return nil, errors.New("watch callback is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		opts:     opts,
		fsw:      fsw,
		debounce: debounce,
		callback: callback,
		files:    make(map[string]bool),
		pending:  make(map[string]bool),
		logger:   logger.ComponentLogger("casegen.watch"),
	}

	for _, root := range roots {
		if err := w.addRoot(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", root)
	}
	if !info.IsDir() {
		w.files[filepath.Clean(root)] = true
		return w.add(filepath.Dir(root))
	}
	return w.addTree(root)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.opts.IsExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	w.logger.Debugw("Watching directory", logger.FieldPath, dir)
	return nil
}

// Relevant reports whether an event on path should trigger regeneration
func (w *Watcher) Relevant(path string) bool {
	if w.files[filepath.Clean(path)] {
		return true
	}
	return w.opts.IsSourceFile(path)
}

// Run processes events until ctx is cancelled, then waits for any in-flight pass
func (w *Watcher) Run(ctx context.Context) error {
	defer w.wg.Wait()
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.opts.IsExcludedDir(filepath.Base(event.Name)) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warnw("Failed to watch new directory",
						logger.FieldPath, event.Name,
						logger.FieldError, err)
				}
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.Relevant(event.Name) {
		return
	}

	w.logger.Debugw("Detected change",
		logger.FieldFile, event.Name,
		"op", event.Op.String())
	w.schedule(ctx, event.Name)
}

// schedule records a changed file and restarts the debounce timer
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.fire(ctx)
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.timer = nil
}

func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	w.runMu.Lock()
	defer w.runMu.Unlock()

	runID := uuid.NewString()
	log := logger.ChildLogger(w.logger, logger.FieldRunID, runID)
	start := time.Now()

	log.Infow("Regenerating", logger.FieldCount, len(changed))
	if err := w.callback(ctx, runID, changed); err != nil {
		log.Errorw("Regeneration failed", logger.FieldError, err)
		return
	}
	log.Infow("Regeneration complete", logger.FieldDurationMS, time.Since(start).Milliseconds())
}
