package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"msdashboard/pkg/logging"
)

const defaultDebounceInterval = 500 * time.Millisecond

// Watcher signals changes to the configuration file so the server can
// rebuild its aggregation pipeline without a restart.
//
// It watches the file's directory rather than the file itself, because many
// editors replace files on save, and debounces bursts of events into a
// single signal.
type Watcher struct {
	mu sync.Mutex

	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	running  bool
}

// NewWatcher creates a watcher for the given config file path. A zero
// debounce interval falls back to 500ms.
func NewWatcher(path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounceInterval
	}
	return &Watcher{path: path, debounce: debounce}
}

// Start begins watching and sends one signal per debounced change burst on
// the returned channel until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	w.watcher = watcher
	w.running = true

	changes := make(chan struct{}, 1)
	go w.processEvents(ctx, changes)
	return changes, nil
}

func (w *Watcher) processEvents(ctx context.Context, changes chan<- struct{}) {
	defer w.watcher.Close()
	defer close(changes)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.scheduleSignal(changes)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("ConfigWatcher", "Watch error: %v", err)
		}
	}
}

func (w *Watcher) scheduleSignal(changes chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case changes <- struct{}{}:
			logging.Info("ConfigWatcher", "Configuration change detected at %s", w.path)
		default:
			// A reload is already pending.
		}
	})
}
