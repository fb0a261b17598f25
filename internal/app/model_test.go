package app

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/crux-dashboard-tui/internal/config"
	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/crux"
)

type fetchFunc func(ctx context.Context, url string) (models.SiteMetrics, error)

func (f fetchFunc) FetchReport(ctx context.Context, url string) (models.SiteMetrics, error) {
	return f(ctx, url)
}

func fetchOK(_ context.Context, url string) (models.SiteMetrics, error) {
	return testSite(url, 2000).Metrics, nil
}

func newTestModel(t *testing.T, fetch fetchFunc) *Model {
	t.Helper()
	cfg := &config.Config{BackendURL: "http://localhost:3001", ExportDir: t.TempDir()}
	mgr, err := services.NewManager(cfg, services.WithFetcher(fetch))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	m := NewModel(mgr, cfg)
	m.ready = true
	m.width = 100
	m.height = 30
	return m
}

// runSearch drives a search the way the update loop would.
func runSearch(t *testing.T, m *Model, urls []string) {
	t.Helper()
	cmd := m.handleSearch(SearchMsg{URLs: urls})
	if cmd == nil {
		t.Fatal("handleSearch returned nil command")
	}
	m.Update(cmd())
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabSearch {
		t.Error("Default tab should be Search")
	}
	if len(model.tabs) != 4 {
		t.Errorf("Should have 4 tab placeholders, got %d", len(model.tabs))
	}
	if model.exportDir != "." {
		t.Errorf("exportDir = %q, want .", model.exportDir)
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil, nil)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	if model.state.IsInitialLoading() {
		t.Error("without services there is nothing to load")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil, nil)
	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}
	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.width, m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
}

func TestModel_TabSwitching(t *testing.T) {
	model := NewModel(nil, nil)
	model.ready = true

	model.switchTab(TabInsights)
	if model.activeTab != TabInsights {
		t.Errorf("ActiveTab = %v, want Insights", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if model.activeTab != TabReport {
		t.Errorf("ActiveTab = %v, want Report", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.activeTab != TabInsights {
		t.Errorf("ActiveTab = %v, want Insights after tab", model.activeTab)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.activeTab != TabInfo {
		t.Errorf("ActiveTab = %v, want Info after wrapping", model.activeTab)
	}

	model.switchTab(TabID(42))
	if model.activeTab != TabInfo {
		t.Error("out of range tab should be ignored")
	}
}

func TestModel_InputFocusBlocksGlobalKeys(t *testing.T) {
	model := NewModel(nil, nil)
	model.Update(InputFocusMsg{Focused: true})

	cmd, handled := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if handled || cmd != nil {
		t.Error("q should reach the focused input")
	}
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if model.activeTab != TabSearch {
		t.Error("tab keys should be ignored while typing")
	}

	if _, handled := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC}); !handled {
		t.Error("ctrl+c always quits")
	}

	model.Update(InputFocusMsg{Focused: false})
	if _, handled := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); !handled {
		t.Error("q should quit once the input is blurred")
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil, nil)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil, nil)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.ready = true
	model.width = 80
	model.height = 24

	view := model.View()
	for _, name := range []string{"Search", "Report", "Insights", "Info"} {
		if !strings.Contains(view, name) {
			t.Errorf("View should show %s tab", name)
		}
	}
	if !strings.Contains(view, "No Search tab configured") {
		t.Error("View should show placeholder text")
	}
	if !strings.Contains(view, "0 URL(s), no report") {
		t.Error("navbar should summarize the report state")
	}

	model.state.SetReport(models.NewRawReport(testSite("https://a.com", 1000)))
	if view := model.View(); !strings.Contains(view, "1 site(s), updated") {
		t.Error("navbar should show the loaded site count")
	}

	model.state.SetBanner("Error fetching data for the following URL(s): https://x.com. Please try again.")
	if view := model.View(); !strings.Contains(view, "Error fetching data") {
		t.Error("View should show the error banner")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil, nil)
	model.ready = true
	model.width = 80
	model.height = 24

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !model.showHelp {
		t.Fatal("? should open help")
	}
	view := model.View()
	for _, want := range []string{"Keyboard Shortcuts", "Global", "search again"} {
		if !strings.Contains(view, want) {
			t.Errorf("help should contain %q", want)
		}
	}

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if model.activeTab != TabSearch {
		t.Error("tab keys should be swallowed while help is open")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("esc should close help")
	}

	if _, handled := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc}); handled {
		t.Error("esc without help belongs to the tab")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil, nil)
	model.Update(AddNotificationMsg{Message: "Test Note", Type: NotificationInfo})

	if notifs := model.state.GetNotifications(); len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}

	model.ready = true
	model.width = 80
	model.height = 24
	if !strings.Contains(model.View(), "Test Note") {
		t.Error("View should show notification")
	}

	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(TickMsg{Time: time.Now()})
	if len(model.state.GetNotifications()) != 1 {
		t.Error("non-expiring notification should survive")
	}
}

func TestOverlay(t *testing.T) {
	base := "aaaaa\nbbbbb\nccccc"
	got := overlay(base, "XY\nZW", 1, 1)
	want := "aaaaa\nbXYbb\ncZWcc"
	if got != want {
		t.Errorf("overlay = %q, want %q", got, want)
	}

	if got := overlay("ab", "XYZ", 4, 0); got != "ab  XYZ" {
		t.Errorf("overlay past the line end = %q", got)
	}
	if got := overlay("ab", "X\nY", 0, 5); got != "ab" {
		t.Errorf("overlay below the base = %q", got)
	}
}

func TestModel_URLs(t *testing.T) {
	model := newTestModel(t, fetchOK)

	model.Update(URLsLoadedMsg{URLs: []string{"https://a.com"}})
	if model.state.IsInitialLoading() {
		t.Error("initial loading should be cleared")
	}

	model.Update(UpdateURLsMsg{URLs: []string{"https://a.com", "https://b.com"}})
	if got := model.services.URLs(); !reflect.DeepEqual(got, []string{"https://a.com", "https://b.com"}) {
		t.Errorf("manager URLs = %v", got)
	}
	if got := model.state.GetURLs(); len(got) != 2 {
		t.Errorf("state URLs = %v", got)
	}
}

func TestModel_SearchSuccess(t *testing.T) {
	model := newTestModel(t, fetchOK)

	runSearch(t, model, []string{"https://a.com", "https://b.com"})

	if model.state.IsSearching() {
		t.Error("search should be finished")
	}
	if !model.state.HasReport() || len(model.state.GetView().Sites) != 2 {
		t.Error("report should hold both sites")
	}
	if model.state.Banner() != "" {
		t.Errorf("Banner = %q, want empty", model.state.Banner())
	}
	if model.activeTab != TabReport {
		t.Errorf("ActiveTab = %v, want Report", model.activeTab)
	}
}

func TestModel_SearchPartialFailure(t *testing.T) {
	model := newTestModel(t, func(ctx context.Context, url string) (models.SiteMetrics, error) {
		if url == "https://bad.com" {
			return models.SiteMetrics{}, &crux.FetchError{URL: url, StatusCode: 500, Body: "boom"}
		}
		return fetchOK(ctx, url)
	})
	model.services.SetURLs([]string{"https://a.com", "https://bad.com"})

	runSearch(t, model, model.services.URLs())

	want := "Error fetching data for the following URL(s): https://bad.com. Please try again."
	if model.state.Banner() != want {
		t.Errorf("Banner = %q, want %q", model.state.Banner(), want)
	}
	if got := model.state.GetURLs(); !reflect.DeepEqual(got, []string{"https://a.com"}) {
		t.Errorf("URLs = %v, want only the successful one", got)
	}
	if !model.state.HasReport() || len(model.state.GetView().Sites) != 1 {
		t.Error("successful site should still be shown")
	}
}

func TestModel_SearchUnexpectedError(t *testing.T) {
	model := newTestModel(t, func(context.Context, string) (models.SiteMetrics, error) {
		panic("boom")
	})
	model.state.SetReport(models.NewRawReport(testSite("https://old.com", 1)))

	runSearch(t, model, []string{"https://a.com"})

	if model.state.Banner() != crux.UnexpectedMessage {
		t.Errorf("Banner = %q, want %q", model.state.Banner(), crux.UnexpectedMessage)
	}
	if model.state.GetView() != nil {
		t.Error("no data should be shown after an unexpected error")
	}
	if model.activeTab != TabSearch {
		t.Error("should stay on the search tab")
	}
}

func TestModel_SearchDiscardsStaleResult(t *testing.T) {
	model := newTestModel(t, fetchOK)

	stale := model.services.Search(context.Background(), []string{"https://old.com"})
	model.handleSearch(SearchMsg{URLs: []string{"https://new.com"}})
	current := model.services.Search(context.Background(), []string{"https://new.com"})

	model.Update(SearchResultMsg{Result: stale})
	if model.state.HasReport() {
		t.Error("stale result must not be shown")
	}
	if !model.state.IsSearching() {
		t.Error("the newer search is still pending")
	}

	model.Update(SearchResultMsg{Result: current})
	if got := model.state.GetView(); got == nil || got.Sites[0].URL != "https://new.com" {
		t.Error("current result should be shown")
	}
}

func TestModel_SearchRequiresURLs(t *testing.T) {
	model := newTestModel(t, fetchOK)

	cmd := model.handleSearch(SearchMsg{})
	msg, ok := cmd().(AddNotificationMsg)
	if !ok || msg.Type != NotificationWarning {
		t.Errorf("empty search should warn, got %#v", msg)
	}
	if model.state.IsSearching() {
		t.Error("empty search should not start")
	}
}

func TestModel_RefreshKeyRepeatsSearch(t *testing.T) {
	model := NewModel(nil, nil)
	model.state.SetURLs([]string{"https://a.com"})

	cmd, handled := model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !handled || cmd == nil {
		t.Fatal("r should be handled")
	}
	msg, ok := cmd().(SearchMsg)
	if !ok || !reflect.DeepEqual(msg.URLs, []string{"https://a.com"}) {
		t.Errorf("r produced %#v", msg)
	}
}

func TestModel_Export(t *testing.T) {
	model := newTestModel(t, fetchOK)

	cmd := model.handleExport(ExportMsg{Format: ExportMarkdown})
	if msg, ok := cmd().(AddNotificationMsg); !ok || msg.Type != NotificationWarning {
		t.Error("export without a report should warn")
	}

	model.state.SetReport(models.NewRawReport(testSite("https://a.com", 1200)))
	cmd = model.handleExport(ExportMsg{Format: ExportMarkdown})
	if !model.state.Loading.Export {
		t.Error("export should be loading")
	}

	res, ok := cmd().(ExportResultMsg)
	if !ok || res.Error != nil {
		t.Fatalf("export failed: %#v", res)
	}
	model.Update(res)
	if model.state.Loading.Export {
		t.Error("export loading should be cleared")
	}

	model.Update(ExportResultMsg{Format: ExportPDF, Error: errors.New("disk full")})
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil, nil)

	cmd := model.handleServiceEvent(services.URLsChangedEvent{Source: services.SourceSeedFile, URLs: []string{"https://a.com"}})
	if cmd == nil {
		t.Error("seed file reload should notify")
	}
	if got := model.state.GetURLs(); len(got) != 1 {
		t.Errorf("URLs = %v", got)
	}

	if cmd := model.handleServiceEvent(services.URLsChangedEvent{Source: services.SourceSearch}); cmd != nil {
		t.Error("search reseeding is reported by the banner")
	}

	if cmd := model.handleServiceEvent(services.ErrorEvent{Service: "test", Error: errors.New("x")}); cmd == nil {
		t.Error("Error event should trigger notification command")
	}

	if cmd := model.handleServiceEvent(services.SearchStartedEvent{}); cmd != nil {
		t.Error("search events are handled through SearchResultMsg")
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil, nil)
	_, cmd := model.Update(model.spinner.Tick())
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	tests := map[TabID]string{
		TabSearch:   "Search",
		TabReport:   "Report",
		TabInsights: "Insights",
		TabInfo:     "Info",
		TabID(999):  "Unknown",
		TabID(-1):   "Unknown",
	}
	for id, want := range tests {
		if got := id.String(); got != want {
			t.Errorf("TabID(%d).String() = %q, want %q", id, got, want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.ForceQuit) {
		t.Error("ctrl+c should force quit")
	}
	if len(km.Tabs) != len(tabNames) {
		t.Fatalf("Tabs = %d bindings, want %d", len(km.Tabs), len(tabNames))
	}
	if id, ok := km.tabFor(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}}); !ok || id != TabInfo {
		t.Errorf("tabFor(4) = %v, %v", id, ok)
	}
	if _, ok := km.tabFor(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}}); ok {
		t.Error("9 is not bound to a tab")
	}
}
