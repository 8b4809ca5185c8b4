package services

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/flight-demand-tui/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// csvWatcher calls onChange when the watched file is written or created.
// Bursts of events within debounceInterval collapse into one call.
type csvWatcher struct {
	mu            sync.Mutex
	path          string
	watcher       *fsnotify.Watcher
	onChange      func(path string)
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

func newCSVWatcher(path string, onChange func(path string)) (*csvWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory to catch editors that replace the file
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	w := &csvWatcher{
		path:     path,
		watcher:  watcher,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

func (w *csvWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.mu.Lock()
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(debounceInterval, func() {
					w.onChange(w.path)
				})
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "path", w.path, "error", err)

		case <-w.stopChan:
			return
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (w *csvWatcher) Close() error {
	close(w.stopChan)

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
