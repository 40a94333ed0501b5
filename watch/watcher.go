// Package watch re-runs generation when its inputs change.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// DefaultDebounce collapses the burst of events a single save produces
const DefaultDebounce = 500 * time.Millisecond

// ChangeCallback is called once per debounced change with the last changed path
type ChangeCallback func(path string) error

// Watcher watches a fixed set of files and triggers callbacks when any of
// them is written, created or replaced
type Watcher struct {
	files          map[string]bool
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	lastPath       string
}

// New creates a watcher for files. Their parent directories are watched so
// that editors replacing a file by rename are still seen.
func New(debounce time.Duration, files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("watch: no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:          make(map[string]bool, len(files)),
		watcher:        watcher,
		debouncePeriod: debounce,
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}

	return w, nil
}

// OnChange registers a callback
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching in the background
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching. A pending debounced change is dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			logger.Debugw("Input changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.scheduleRun(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// scheduleRun debounces rapid changes into one callback round
func (w *Watcher) scheduleRun(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastPath = path
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.run)
}

func (w *Watcher) run() {
	w.mu.RLock()
	path := w.lastPath
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(path); err != nil {
			// Keep watching; the next change gets another chance
			logger.Errorw("Change callback failed",
				logger.FieldFile, path,
				logger.FieldError, err)
		}
	}
}
