package urls

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/crux-dashboard-tui/internal/logger"
)

// Event represents a seed file event.
type Event struct {
	Error error
	URLs  []string
	Type  EventType
}

// EventType defines the type of seed file event.
type EventType int

const (
	EventURLsLoaded EventType = iota
	EventURLsChanged
	EventError
)

const debounceInterval = 100 * time.Millisecond

// LoadFile reads a seed file in bulk format. A missing file yields no URLs.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return NewList(ParseBulk(string(data))...).URLs(), nil
}

// Watcher keeps the URLs of a seed file current and reports changes.
type Watcher struct {
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	filePath      string
	urls          []string
	mu            sync.Mutex
	closeOnce     sync.Once
}

// Watch loads the seed file at path and starts watching it for changes.
func Watch(path string) (*Watcher, error) {
	w := &Watcher{
		filePath:  path,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	urls, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	w.urls = urls

	if err := w.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	w.sendEvent(Event{Type: EventURLsLoaded, URLs: slices.Clone(urls)})
	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.filePath
}

// URLs returns the URLs of the last successful load.
func (w *Watcher) URLs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.urls)
}

// Events returns the event channel.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

func (w *Watcher) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	// Watch the directory to catch editors that replace the file
	if err := watcher.Add(filepath.Dir(w.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go w.watchLoop()
	return nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			w.mu.Lock()
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(debounceInterval, w.handleFileChange)
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendEvent(Event{Type: EventError, Error: err})

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleFileChange() {
	urls, err := LoadFile(w.filePath)
	if err != nil {
		logger.Warn("failed to reload seed file", "path", w.filePath, "error", err)
		w.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	w.mu.Lock()
	unchanged := slices.Equal(urls, w.urls)
	w.urls = urls
	w.mu.Unlock()

	if unchanged {
		return
	}

	logger.Info("seed file changed", "path", w.filePath, "urls", len(urls))
	w.sendEvent(Event{Type: EventURLsChanged, URLs: slices.Clone(urls)})
}

// sendEvent sends an event without blocking, dropping the oldest one when
// the channel is full.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.eventChan <- event:
	default:
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}
