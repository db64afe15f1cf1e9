// Package watch reports changes to a set of files, coalescing bursts of
// filesystem events into a single notification.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/webuild/log"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// ErrClosed is returned by [Watcher.Run] when the watcher is closed while
// running.
var ErrClosed = errors.New("watcher closed")

// Watcher watches the directories containing a set of files and reports
// changes to those files only. Watching directories rather than the files
// themselves keeps working across editors that save by renaming a temporary
// file over the original.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   log.Logger

	mu    sync.RWMutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// Option configures a [Watcher].
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits after the last event before
// reporting. Non-positive values select [DefaultDebounce].
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d <= 0 {
			d = DefaultDebounce
		}

		w.debounce = d
	}
}

// WithLogger sets the logger for watch activity.
func WithLogger(l log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New returns a Watcher with an empty file set.
func New(opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fs,
		debounce: DefaultDebounce,
		files:    map[string]struct{}{},
		dirs:     map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Set replaces the watched file set. Directories no longer needed are
// released and new ones are added. Set may be called while [Watcher.Run]
// is running, including from its callback.
func (w *Watcher) Set(files ...string) error {
	want := make(map[string]struct{}, len(files))
	dirs := map[string]struct{}{}

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch %s: %w", f, err)
		}

		want[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range dirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}

		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}

		w.logger.Debug("watching directory", slog.String("path", dir))
	}

	for dir := range w.dirs {
		if _, ok := dirs[dir]; !ok {
			_ = w.fs.Remove(dir)
		}
	}

	w.files, w.dirs = want, dirs

	return nil
}

// Files returns the watched files in sorted order.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return slices.Sorted(maps.Keys(w.files))
}

// Run blocks until ctx is done, calling fn with the sorted set of watched
// files that changed once no further events arrive for the debounce period.
// fn runs on Run's goroutine, so events arriving while it runs are reported
// in the next call.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context, []string)) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	var fire <-chan time.Time

	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}

			if !w.relevant(ev) {
				continue
			}

			w.logger.TraceContext(ctx, "file event",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			pending[ev.Name] = struct{}{}

			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil

			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)

			fn(ctx, changed)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}

			w.logger.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

// Close releases the underlying watches. A running [Watcher.Run] returns
// [ErrClosed].
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.files[filepath.Clean(ev.Name)]

	return ok
}
