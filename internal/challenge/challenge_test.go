package challenge

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "challenges.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	return path
}

func TestService_TodayMatchesDate(t *testing.T) {
	path := writePack(t, `challenges:
  - date: "2026-08-27"
    title: "Yesterday"
    description: "d1"
  - date: "2026-08-28"
    title: "Today"
    description: "d2"
`)
	svc, err := NewService(path)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	}

	if got := svc.Today(); got.Title != "Today" {
		t.Errorf("Today() = %q; want %q", got.Title, "Today")
	}
}

func TestService_TodayFallsBackToFirstEntry(t *testing.T) {
	path := writePack(t, `challenges:
  - date: "2026-01-02"
    title: "Second"
    description: "d2"
  - date: "2026-01-01"
    title: "First"
    description: "d1"
`)
	svc, err := NewService(path)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	}

	// Entries are sorted by date, so the earliest one is the fallback.
	if got := svc.Today(); got.Title != "First" {
		t.Errorf("Today() = %q; want %q", got.Title, "First")
	}
}

func TestNewService_EmbeddedDefaultPack(t *testing.T) {
	svc, err := NewService("")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if got := svc.Today(); got.Title == "" || got.Description == "" {
		t.Errorf("Today() = %+v; want a populated entry", got)
	}
}

func TestNewService_EmptyPack(t *testing.T) {
	path := writePack(t, "challenges: []\n")
	if _, err := NewService(path); err == nil {
		t.Error("NewService() should reject an empty pack")
	}
}

func TestNewService_MalformedPack(t *testing.T) {
	path := writePack(t, "challenges: {not a list}\n")
	if _, err := NewService(path); err == nil {
		t.Error("NewService() should reject malformed YAML")
	}
}
