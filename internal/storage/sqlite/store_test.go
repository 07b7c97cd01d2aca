package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "envsync.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadBeforeInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestInitWritesDefaults(t *testing.T) {
	s := setupStore(t)

	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}

	version, err := s.SchemaVersion()
	if err != nil || version < 1 {
		t.Errorf("SchemaVersion = %d, %v", version, err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := setupStore(t)

	settings, _ := s.GetSettings()
	settings.Sunrise = "05:58"
	settings.AutomationEnabled = false
	settings.LastSunSyncDate = "2026-10-16"
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	// reopen to make sure values come from disk
	path := s.GetConfigPath()
	s.Close()
	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.Sunrise != "05:58" || got.AutomationEnabled || got.LastSunSyncDate != "2026-10-16" {
		t.Errorf("unexpected settings %+v", got)
	}
}

func TestInitKeepsExistingSettings(t *testing.T) {
	s := setupStore(t)
	settings, _ := s.GetSettings()
	settings.Location = "shanghai"
	_ = s.SaveSettings(settings)

	if err := s.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	got, _ := s.GetSettings()
	if got.Location != "shanghai" {
		t.Errorf("re-init overwrote settings: %+v", got)
	}
}

func TestEvents(t *testing.T) {
	s := setupStore(t)
	base := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.Local)

	for i, slot := range []models.Slot{models.SlotBooks, models.SlotWhale, models.SlotBooks} {
		e := models.AutomationEvent{
			ID:     uuid.NewString(),
			At:     base.Add(time.Duration(i) * time.Second),
			Slot:   slot,
			Rule:   "r",
			Kind:   models.EventToggleIssued,
			Target: true,
		}
		if err := s.AppendEvent(e); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	all, err := s.RecentEvents("", 10)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if !all[0].At.Equal(base.Add(2 * time.Second)) {
		t.Errorf("newest first expected, got %v", all[0].At)
	}
	if !all[0].Target || all[0].Actual {
		t.Errorf("bool columns not restored: %+v", all[0])
	}

	books, _ := s.RecentEvents(models.SlotBooks, 10)
	if len(books) != 2 {
		t.Errorf("expected 2 books events, got %d", len(books))
	}
	limited, _ := s.RecentEvents("", 1)
	if len(limited) != 1 {
		t.Errorf("limit not applied, got %d", len(limited))
	}
}
