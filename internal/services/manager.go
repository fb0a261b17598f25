// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/crux-dashboard-tui/internal/config"
	"github.com/j-veylop/crux-dashboard-tui/internal/logger"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/crux"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/urls"
)

type (
	// URLsChangedEvent is emitted when the URL list changes outside the form.
	URLsChangedEvent struct {
		Source string
		URLs   []string
	}

	// SearchStartedEvent is emitted when a search begins.
	SearchStartedEvent struct {
		URLs       []string
		Generation uint64
	}

	// SearchCompletedEvent is emitted when a search has settled.
	SearchCompletedEvent struct {
		Result SearchResult
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (URLsChangedEvent) isServiceEvent()     {}
func (SearchStartedEvent) isServiceEvent()   {}
func (SearchCompletedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

// URL list change sources.
const (
	SourceSeedFile = "seed file"
	SourceSearch   = "search"
)

// SearchResult is the outcome of one search generation.
type SearchResult struct {
	// Err is set when the search failed as a whole.
	Err        error
	URLs       []string
	Result     crux.Result
	Generation uint64
}

// Unexpected reports whether the search failed outside of any single URL.
func (r SearchResult) Unexpected() bool {
	return r.Err != nil
}

// Message returns the text to show the user, or "" on full success.
func (r SearchResult) Message() string {
	if r.Unexpected() {
		return crux.UnexpectedMessage
	}
	return r.Result.FailureMessage()
}

// NotifyFunc sends a desktop notification.
type NotifyFunc func(title, message string) error

func beeepNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Option configures a Manager.
type Option func(*Manager)

// WithFetcher replaces the HTTP backend client.
func WithFetcher(f crux.Fetcher) Option {
	return func(m *Manager) {
		m.requester = crux.NewRequester(f)
	}
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(fn NotifyFunc) Option {
	return func(m *Manager) {
		m.notifier = fn
	}
}

// Manager orchestrates services and event routing.
type Manager struct {
	requester    *crux.Requester
	seed         *urls.Watcher
	notifier     NotifyFunc
	cancelSearch context.CancelFunc
	stopChan     chan struct{}
	backendURL   string
	subscribers  []chan<- ServiceEvent
	list         urls.List
	generation   uint64
	notify       bool
	mu           sync.RWMutex
	closeOnce    sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		stopChan:   make(chan struct{}),
		backendURL: cfg.BackendURL,
		notify:     cfg.Notify,
		notifier:   beeepNotify,
		requester:  crux.NewRequester(crux.NewClient(cfg.BackendURL, cfg.RequestTimeout)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if cfg.URLsFile != "" {
		seed, err := urls.Watch(cfg.URLsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		m.seed = seed
		m.list = urls.NewList(seed.URLs()...)
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var seedEvents <-chan urls.Event
	if m.seed != nil {
		seedEvents = m.seed.Events()
	}

	for {
		select {
		case event := <-seedEvents:
			m.handleSeedEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleSeedEvent(event urls.Event) {
	switch event.Type {
	case urls.EventURLsLoaded, urls.EventURLsChanged:
		m.mu.Lock()
		m.list = urls.NewList(event.URLs...)
		current := m.list.URLs()
		m.mu.Unlock()

		m.broadcast(URLsChangedEvent{Source: SourceSeedFile, URLs: current})

	case urls.EventError:
		m.broadcast(ErrorEvent{Service: "urls", Error: event.Error})
	}
}

// URLs returns the current URL list.
func (m *Manager) URLs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list.URLs()
}

// SetURLs replaces the URL list after an edit in the form.
func (m *Manager) SetURLs(list []string) {
	m.mu.Lock()
	m.list = urls.NewList(list...)
	m.mu.Unlock()
}

// BackendURL returns the configured backend base URL.
func (m *Manager) BackendURL() string {
	return m.backendURL
}

// SeedFile returns the watched seed file path, or "" when none is used.
func (m *Manager) SeedFile() string {
	if m.seed == nil {
		return ""
	}
	return m.seed.Path()
}

// Generation returns the number of the latest search.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// IsCurrent reports whether generation belongs to the latest search.
func (m *Manager) IsCurrent(generation uint64) bool {
	return m.Generation() == generation
}

// Search fetches reports for list as a new generation, cancelling any search
// still in flight. Results of superseded generations are still returned and
// broadcast but leave the URL list untouched.
func (m *Manager) Search(ctx context.Context, list []string) SearchResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.mu.Lock()
	if m.cancelSearch != nil {
		m.cancelSearch()
	}
	m.generation++
	gen := m.generation
	m.cancelSearch = cancel
	m.mu.Unlock()

	m.broadcast(SearchStartedEvent{Generation: gen, URLs: list})

	res, err := m.requester.FetchAll(ctx, list)
	result := SearchResult{Generation: gen, URLs: list, Result: res, Err: err}
	if err != nil {
		logger.Error("search failed", "generation", gen, "error", err)
	}

	m.mu.Lock()
	current := m.generation == gen
	if current {
		m.cancelSearch = nil
		if err == nil && res.HasFailures() {
			m.list = urls.NewList(res.Succeeded...)
		}
	}
	reseeded := m.list.URLs()
	m.mu.Unlock()

	if !current {
		logger.Debug("discarding superseded search", "generation", gen)
	} else if err == nil && res.HasFailures() {
		m.broadcast(URLsChangedEvent{Source: SourceSearch, URLs: reseeded})
	}

	m.broadcast(SearchCompletedEvent{Result: result})

	if current {
		m.notifyCompleted(result)
	}
	return result
}

func (m *Manager) notifyCompleted(result SearchResult) {
	if !m.notify || m.notifier == nil {
		return
	}

	title := "CrUX report ready"
	body := fmt.Sprintf("%d of %d sites fetched", len(result.Result.Succeeded), len(result.URLs))
	if result.Unexpected() {
		title = "CrUX report failed"
		body = crux.UnexpectedMessage
	}

	if err := m.notifier(title, body); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe registers a buffered channel that receives every event. Slow
// subscribers miss events rather than block the manager.
func (m *Manager) Subscribe() chan ServiceEvent {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close cancels any running search and stops all services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		if m.cancelSearch != nil {
			m.cancelSearch()
			m.cancelSearch = nil
		}
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.seed != nil {
			if err := m.seed.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
