package gallery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"photo-portfolio/internal/logging"
	"photo-portfolio/internal/metrics"
)

// Watcher invalidates memoized listings when the galleries root changes on
// disk. Without it, new uploads only appear after the listing TTL expires.
type Watcher struct {
	library *Library
	stop    chan struct{}
	done    chan struct{}
}

// NewWatcher creates a watcher over the library's root.
func NewWatcher(library *Library) *Watcher {
	return &Watcher{
		library: library,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins watching in a background goroutine. If the watcher cannot be
// created the library simply falls back to TTL-based expiry.
func (w *Watcher) Start() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Error("Failed to create gallery watcher, listings refresh on TTL only: %v", err)
		metrics.WatcherErrors.Inc()
		close(w.done)
		return
	}

	count := w.addDirectories(watcher)
	metrics.WatchedDirectories.Set(float64(count))
	logging.Debug("Gallery watcher started, watching %d directories", count)

	go w.run(watcher)
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
}

// addDirectories registers the root and every gallery subdirectory.
func (w *Watcher) addDirectories(watcher *fsnotify.Watcher) int {
	count := 0
	err := filepath.Walk(w.library.Root(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			if addErr := watcher.Add(path); addErr != nil {
				logging.Warn("Failed to watch %s: %v", path, addErr)
				metrics.WatcherErrors.Inc()
			} else {
				count++
			}
		}
		return nil
	})
	if err != nil {
		logging.Warn("Failed to walk galleries root for watcher: %v", err)
		metrics.WatcherErrors.Inc()
	}
	return count
}

func (w *Watcher) run(watcher *fsnotify.Watcher) {
	defer close(w.done)
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Warn("Failed to close gallery watcher: %v", err)
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Gallery watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	// Hidden files include our own cache write-test droppings
	if strings.Contains(event.Name, string(filepath.Separator)+".") {
		return
	}

	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// A new gallery directory needs its own watch before uploads into it
	// produce events
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if addErr := watcher.Add(event.Name); addErr != nil {
				logging.Warn("Failed to watch new gallery %s: %v", event.Name, addErr)
				metrics.WatcherErrors.Inc()
			} else {
				metrics.WatchedDirectories.Inc()
				logging.Debug("Watching new gallery directory: %s", event.Name)
			}
		}
	}

	logging.Debug("Gallery change (%s), flushing listings: %s", eventType(event.Op), event.Name)
	w.library.Flush()
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
