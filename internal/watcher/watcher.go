// Package watcher re-synchronizes the store when the roster CSV export
// changes on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Spreadsheet exports are written in several chunks (and some editors write
// via rename), so a single change event does not mean the file is complete.
// The sync callback fires only after the file has been quiet for the
// debounce interval.

// SyncFunc is invoked after the watched file settles.
type SyncFunc func(ctx context.Context)

// Watcher monitors one CSV file and debounces change bursts into a single
// sync call.
type Watcher struct {
	path     string
	debounce time.Duration
	sync     SyncFunc
	logger   *slog.Logger

	fs *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher for the file at path. The parent directory is
// watched rather than the file itself, so atomic save-by-rename still
// produces events.
func New(path string, debounce time.Duration, syncFn SyncFunc, logger *slog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	path = filepath.Clean(path)
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:     path,
		debounce: debounce,
		sync:     syncFn,
		logger:   logger,
		fs:       fs,
		done:     make(chan struct{}),
	}, nil
}

// Start begins processing events until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.loop(ctx)
	w.logger.Info("watching roster export", "path", w.path, "debounce", w.debounce)
}

// Stop terminates the watcher and waits for the event loop to exit. A timer
// still counting down is discarded; a sync already underway is waited for so
// it never races the store shutdown.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fs.Close()

		w.mu.Lock()
		if w.timer != nil && w.timer.Stop() {
			w.wg.Done()
		}
		w.mu.Unlock()
	})
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer. Every armed timer holds a
// WaitGroup slot, released either by the callback or by whoever stops the
// timer before it fires. The loop goroutine holds its own slot while this
// runs, so the Add never races Stop's Wait.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		default:
		}
		w.logger.Info("roster export changed, synchronizing", "path", w.path)
		w.sync(ctx)
	})
}
