package sunsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/envsync/internal/models"
)

type memStore struct{ settings models.Settings }

func (m *memStore) GetSettings() (models.Settings, error) { return m.settings, nil }
func (m *memStore) SaveSettings(s models.Settings) error  { m.settings = s; return nil }

type scriptedSun struct {
	fails int
	calls int
}

func (f *scriptedSun) FetchSun(ctx context.Context, location string) (models.SunTimes, error) {
	f.calls++
	if f.calls <= f.fails {
		return models.SunTimes{}, errors.New("provider unavailable")
	}
	return models.SunTimes{Date: "2026-10-16", Sunrise: "06:21", Sunset: "17:42"}, nil
}

func enabled() models.Settings {
	s := models.DefaultSettings()
	s.WeatherSyncEnabled = true
	return s
}

func TestRetry_Backoff(t *testing.T) {
	now := time.Date(2026, time.October, 16, 8, 0, 0, 0, time.Local)
	r := NewRetry(now)
	if !r.Due(now) {
		t.Fatal("first attempt is due immediately")
	}

	wantDelays := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, want := range wantDelays {
		r.Fail(now)
		if got := r.NextAt.Sub(now); got != want {
			t.Errorf("attempt %d: delay %v, want %v", i+1, got, want)
		}
		if r.Due(now) {
			t.Errorf("attempt %d: should not be due before the delay", i+1)
		}
	}

	for !r.Exhausted() {
		r.Fail(now)
	}
	if r.Attempt != 10 {
		t.Errorf("Attempt = %d, want 10", r.Attempt)
	}
	if r.Due(now.Add(24 * time.Hour)) {
		t.Error("exhausted task is never due")
	}
}

func TestSyncer_SuccessPersists(t *testing.T) {
	store := &memStore{settings: enabled()}
	s := New(&scriptedSun{}, store)
	now := time.Date(2026, time.October, 16, 8, 0, 0, 0, time.Local)

	if !s.Due(now, store.settings) {
		t.Fatal("sync should be due")
	}
	if s.Due(now, store.settings) {
		t.Fatal("attempt already in flight")
	}
	sun, err := s.Fetch(context.Background(), "beijing")
	if err := s.Complete(now, sun, err); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if store.settings.Sunrise != "06:21" || store.settings.Sunset != "17:42" {
		t.Errorf("schedule not persisted: %+v", store.settings)
	}
	if store.settings.LastSunSyncDate != "2026-10-16" {
		t.Errorf("LastSunSyncDate = %q", store.settings.LastSunSyncDate)
	}
	if s.Due(now.Add(time.Hour), store.settings) {
		t.Error("sync must not repeat on the same day")
	}
	if !s.Due(now.Add(24*time.Hour), store.settings) {
		t.Error("sync should run again the next day")
	}
}

func TestSyncer_RetriesThenGivesUp(t *testing.T) {
	store := &memStore{settings: enabled()}
	fetcher := &scriptedSun{fails: 100}
	s := New(fetcher, store)
	now := time.Date(2026, time.October, 16, 8, 0, 0, 0, time.Local)

	for i := 0; i < 2000 && !s.GaveUp("2026-10-16"); i++ {
		if s.Due(now, store.settings) {
			sun, err := s.Fetch(context.Background(), "beijing")
			_ = s.Complete(now, sun, err)
		}
		now = now.Add(time.Second)
	}

	if !s.GaveUp("2026-10-16") {
		t.Fatal("syncer should give up after exhausting retries")
	}
	if fetcher.calls != 10 {
		t.Errorf("expected 10 attempts, got %d", fetcher.calls)
	}
	if s.Due(now, store.settings) {
		t.Error("no attempts after giving up for the day")
	}
	next := time.Date(2026, time.October, 17, 8, 0, 0, 0, time.Local)
	if !s.Due(next, store.settings) {
		t.Error("a new day starts a fresh task")
	}
}

func TestSyncer_RecoversAfterFailures(t *testing.T) {
	store := &memStore{settings: enabled()}
	s := New(&scriptedSun{fails: 2}, store)
	now := time.Date(2026, time.October, 16, 8, 0, 0, 0, time.Local)

	for i := 0; i < 20 && store.settings.LastSunSyncDate == ""; i++ {
		if s.Due(now, store.settings) {
			sun, err := s.Fetch(context.Background(), "beijing")
			_ = s.Complete(now, sun, err)
		}
		now = now.Add(time.Second)
	}
	if store.settings.LastSunSyncDate != "2026-10-16" {
		t.Fatalf("expected sync to succeed on the third attempt")
	}
	if s.Pending() != nil {
		t.Error("retry task should be cleared after success")
	}
}

func TestSyncer_Disabled(t *testing.T) {
	store := &memStore{settings: models.DefaultSettings()}
	s := New(&scriptedSun{}, store)
	if s.Due(time.Now(), store.settings) {
		t.Error("sync is off by default")
	}
	if New(nil, store).Due(time.Now(), enabled()) {
		t.Error("no fetcher means no sync")
	}
}
