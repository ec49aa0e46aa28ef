package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/partrace/partrace/internal/logging"
)

// ReloadCallback is called when the engine config file is successfully
// reloaded. Errors from the callback are logged; the watcher keeps
// watching with the previous valid config.
type ReloadCallback func(cfg *Config) error

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// FilePath is the engine config YAML to watch.
	FilePath string

	// DebounceMillis coalesces bursts of file change events (editor save
	// sequences, atomic writes) into a single reload. Default 500ms.
	DebounceMillis int
}

// Watcher hot-reloads the engine config when the file changes, with
// debouncing. Invalid configs during reload are logged and skipped rather
// than crashing the watcher.
type Watcher struct {
	opts     WatcherOptions
	callback ReloadCallback
	logger   *logging.Logger
	cancel   context.CancelFunc
	stopped  chan struct{}
	ready    chan struct{}
	mu       sync.Mutex

	debounceTimer *time.Timer
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(opts WatcherOptions, callback ReloadCallback) (*Watcher, error) {
	if opts.FilePath == "" {
		return nil, fmt.Errorf("FilePath cannot be empty")
	}
	if callback == nil {
		return nil, fmt.Errorf("callback cannot be nil")
	}
	if opts.DebounceMillis == 0 {
		opts.DebounceMillis = 500
	}

	return &Watcher{
		opts:     opts,
		callback: callback,
		logger:   logging.GetLogger("config.watcher"),
		stopped:  make(chan struct{}),
		ready:    make(chan struct{}),
	}, nil
}

// Start loads the initial config, invokes the callback with it, then
// watches the file for changes until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	initial, err := Load(w.opts.FilePath)
	if err != nil {
		return fmt.Errorf("failed to load initial config: %w", err)
	}
	if err := w.callback(initial); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go w.watchLoop(watchCtx)

	// Wait for the fsnotify watcher to initialize so changes right after
	// Start are not missed.
	select {
	case <-w.ready:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for file watcher to initialize")
	}

	return nil
}

// Stop terminates the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.stopped
}

func (w *Watcher) signalReady() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.ready:
	default:
		close(w.ready)
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.stopped)
	defer w.signalReady()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.opts.FilePath); err != nil {
		w.logger.Error("failed to watch file %s: %v", w.opts.FilePath, err)
		return
	}

	w.logger.Info("watching %s for changes (debounce: %dms)", w.opts.FilePath, w.opts.DebounceMillis)
	w.signalReady()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// Atomic writes unlink the old file before renaming the new one
			// into place; re-add the watch on the new inode.
			if event.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				time.Sleep(50 * time.Millisecond)
				if err := watcher.Add(w.opts.FilePath); err != nil {
					w.logger.Warn("failed to re-add watch after %s: %v", event.Op, err)
				}
			}
			w.handleFileChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleFileChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(
		time.Duration(w.opts.DebounceMillis)*time.Millisecond,
		w.reload,
	)
}

func (w *Watcher) reload() {
	newCfg, err := Load(w.opts.FilePath)
	if err != nil {
		w.logger.Warn("failed to reload config (keeping previous): %v", err)
		return
	}
	if err := w.callback(newCfg); err != nil {
		w.logger.Warn("reload callback failed (keeping previous): %v", err)
		return
	}
	w.logger.Info("reloaded engine config from %s", w.opts.FilePath)
}
