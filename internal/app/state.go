package app

import (
	"sync"
	"time"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Search  bool
	Export  bool
}

// State is shared between the root model and the tabs. Only the Bubble Tea
// update loop writes to it; the lock covers reads from commands.
type State struct {
	LastUpdated time.Time
	view        *aggregation.View
	urls        []string
	banner      string

	toasts    *toastQueue
	viewState models.ViewState

	Loading LoadingState

	mu sync.RWMutex
}

// NewState creates an empty state that is waiting for its initial load.
func NewState() *State {
	return &State{
		urls:      make([]string, 0),
		toasts:    newToastQueue(),
		viewState: models.NewViewState(0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "search":
		s.Loading.Search = loading
	case "export":
		s.Loading.Export = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Search || s.Loading.Export
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// IsSearching returns true while a search is in flight.
func (s *State) IsSearching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Search
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Search {
		resources = append(resources, "search")
	}
	if s.Loading.Export {
		resources = append(resources, "export")
	}
	return resources
}

// SetURLs replaces the URL list shown in the search form.
func (s *State) SetURLs(list []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(make([]string, 0, len(list)), list...)
}

// GetURLs returns a copy of the URL list.
func (s *State) GetURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make([]string, len(s.urls))
	copy(urls, s.urls)
	return urls
}

// SetReport derives a fresh view from raw. Site columns are reset to all
// visible while the filter, sort and fixed columns carry over.
func (s *State) SetReport(raw models.RawReport) {
	view := aggregation.NewView(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.viewState = s.viewState.ResetSites(len(view.Sites))
	s.LastUpdated = time.Now()
}

// ClearReport drops the current report.
func (s *State) ClearReport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = nil
	s.viewState = s.viewState.ResetSites(0)
	s.LastUpdated = time.Now()
}

// GetView returns the current report view, or nil when there is none.
func (s *State) GetView() *aggregation.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// HasReport reports whether a non-empty report is loaded.
func (s *State) HasReport() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view != nil && !s.view.Empty()
}

// GetViewState returns the filter, sort and column selection.
func (s *State) GetViewState() models.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewState
}

// SetViewState replaces the filter, sort and column selection.
func (s *State) SetViewState(vs models.ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewState = vs
}

// SetBanner sets the persistent error banner. An empty message clears it.
func (s *State) SetBanner(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = message
}

// Banner returns the current error banner.
func (s *State) Banner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banner
}

// GetLastUpdated returns the last time the report changed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
