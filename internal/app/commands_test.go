package app

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/j-veylop/crux-dashboard-tui/internal/models"
	"github.com/j-veylop/crux-dashboard-tui/internal/services"
	"github.com/j-veylop/crux-dashboard-tui/internal/services/aggregation"
)

func TestCommands_Notify(t *testing.T) {
	cmds := NewCommands()

	tests := []struct {
		kind NotificationType
		want time.Duration
	}{
		{NotificationSuccess, DefaultNotificationDuration},
		{NotificationWarning, DefaultNotificationDuration},
		{NotificationError, LongNotificationDuration},
		{NotificationInfo, QuickNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			msg, ok := cmds.Notify(tt.kind, "msg")().(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if msg.Type != tt.kind || msg.Message != "msg" {
				t.Errorf("got %#v", msg)
			}
			if msg.Duration != tt.want {
				t.Errorf("Duration = %v, want %v", msg.Duration, tt.want)
			}
		})
	}
}

func TestCommands_Requests(t *testing.T) {
	cmds := NewCommands()

	if msg, ok := cmds.Search([]string{"https://a.com"})().(SearchMsg); !ok || !reflect.DeepEqual(msg.URLs, []string{"https://a.com"}) {
		t.Errorf("Search produced %#v", msg)
	}
	if msg, ok := cmds.UpdateURLs([]string{"https://b.com"})().(UpdateURLsMsg); !ok || msg.URLs[0] != "https://b.com" {
		t.Errorf("UpdateURLs produced %#v", msg)
	}
	if msg, ok := cmds.Export(ExportMarkdown)().(ExportMsg); !ok || msg.Format != ExportMarkdown {
		t.Errorf("Export produced %#v", msg)
	}
	if _, ok := cmds.ReportUpdated()().(ReportUpdatedMsg); !ok {
		t.Error("ReportUpdated should produce ReportUpdatedMsg")
	}
	if msg, ok := cmds.InputFocus(true)().(InputFocusMsg); !ok || !msg.Focused {
		t.Errorf("InputFocus produced %#v", msg)
	}
}

func TestTickAndClearCommands(t *testing.T) {
	if tickCmd(time.Millisecond) == nil {
		t.Error("tickCmd returned nil")
	}
	msg, ok := clearNotificationCmd("id", time.Millisecond)().(RemoveNotificationMsg)
	if !ok || msg.ID != "id" {
		t.Errorf("clearNotificationCmd produced %#v", msg)
	}
}

func TestExportCmd(t *testing.T) {
	raw := models.NewRawReport(testSite("https://a.com", 2500))
	view := aggregation.NewView(raw)
	dir := t.TempDir()

	for _, format := range []ExportFormat{ExportPDF, ExportMarkdown} {
		msg := exportCmd(dir, format, view, models.NewViewState(1))()
		res, ok := msg.(ExportResultMsg)
		if !ok {
			t.Fatalf("Expected ExportResultMsg, got %T", msg)
		}
		if res.Error != nil {
			t.Fatalf("%s export failed: %v", format, res.Error)
		}
		if filepath.Dir(res.Path) != dir {
			t.Errorf("Path = %q, want inside %q", res.Path, dir)
		}
		if _, err := os.Stat(res.Path); err != nil {
			t.Errorf("exported file missing: %v", err)
		}
	}
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	view := aggregation.NewView(models.NewRawReport())
	res := exportCmd(t.TempDir(), "csv", view, models.NewViewState(0))().(ExportResultMsg)
	if res.Error == nil {
		t.Error("unknown format should fail")
	}
}

func TestWaitForServiceEventCmd(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.ErrorEvent{Service: "search", Error: errors.New("boom")}

	msg, ok := waitForServiceEventCmd(ch)().(ServiceEventMsg)
	if !ok {
		t.Fatal("expected ServiceEventMsg")
	}
	if _, ok := msg.Event.(services.ErrorEvent); !ok {
		t.Errorf("Event = %T, want ErrorEvent", msg.Event)
	}

	close(ch)
	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %T", msg)
	}
}
