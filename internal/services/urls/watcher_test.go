package urls

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, content string) (*Watcher, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "urls.txt")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})
	return w, path
}

func waitForEvent(t *testing.T, w *Watcher, want EventType) Event {
	t.Helper()

	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event %v", want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("https://a.com\nhttps://b.com, https://a.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"https://a.com", "https://b.com"}) {
		t.Errorf("LoadFile() = %v", got)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	got, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadFile() = %v, want empty", got)
	}
}

func TestWatch_InitialLoad(t *testing.T) {
	w, _ := newTestWatcher(t, "https://a.com")

	ev := waitForEvent(t, w, EventURLsLoaded)
	if !reflect.DeepEqual(ev.URLs, []string{"https://a.com"}) {
		t.Errorf("loaded URLs = %v", ev.URLs)
	}
	if !reflect.DeepEqual(w.URLs(), []string{"https://a.com"}) {
		t.Errorf("URLs() = %v", w.URLs())
	}
}

func TestWatch_DetectsChanges(t *testing.T) {
	w, path := newTestWatcher(t, "https://a.com")
	waitForEvent(t, w, EventURLsLoaded)

	if err := os.WriteFile(path, []byte("https://a.com\nhttps://b.com"), 0o600); err != nil {
		t.Fatal(err)
	}

	ev := waitForEvent(t, w, EventURLsChanged)
	if !reflect.DeepEqual(ev.URLs, []string{"https://a.com", "https://b.com"}) {
		t.Errorf("changed URLs = %v", ev.URLs)
	}
}

func TestWatch_FileCreatedLater(t *testing.T) {
	w, path := newTestWatcher(t, "")
	waitForEvent(t, w, EventURLsLoaded)

	if err := os.WriteFile(path, []byte("https://late.com"), 0o600); err != nil {
		t.Fatal(err)
	}

	ev := waitForEvent(t, w, EventURLsChanged)
	if !reflect.DeepEqual(ev.URLs, []string{"https://late.com"}) {
		t.Errorf("changed URLs = %v", ev.URLs)
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, _ := newTestWatcher(t, "")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
