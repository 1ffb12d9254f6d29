// Package watcher reloads the signal-to-trait weight table when its YAML
// file changes, so weight tuning does not require a restart.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hyperjump/musubi/internal/traits"
)

const defaultDebounce = 400 * time.Millisecond

// WeightsWatcher watches one weight-table file and invokes onReload with
// each successfully parsed table.
type WeightsWatcher struct {
	path     string
	onReload func(*traits.Table)
	debounce time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	started  bool
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a watcher for the weight table at path.
func New(path string, onReload func(*traits.Table), logger *zap.Logger) *WeightsWatcher {
	return &WeightsWatcher{
		path:     path,
		onReload: onReload,
		debounce: defaultDebounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins watching. It returns immediately; events are handled on a
// background goroutine until ctx is cancelled or Stop is called. The
// parent directory is watched because editors typically replace files
// rather than write them in place.
func (w *WeightsWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

func (w *WeightsWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("weight table watch error", zap.Error(err))
		}
	}
}

// scheduleReload debounces bursts of write events into one reload.
func (w *WeightsWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *WeightsWatcher) reload() {
	table, err := traits.LoadTable(w.path)
	if err != nil {
		w.logger.Warn("weight table reload failed, keeping previous table",
			zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("weight table reloaded",
		zap.String("path", w.path), zap.Int("signals", table.Signals()))
	w.onReload(table)
}

// Stop stops watching. Safe to call more than once.
func (w *WeightsWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
		w.mu.Unlock()
	})
}
