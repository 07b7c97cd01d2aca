package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/envsync/internal/models"
)

type stubFetcher struct {
	calls int
	snap  models.WeatherSnapshot
	err   error
}

func (f *stubFetcher) FetchNow(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	f.calls++
	return f.snap, f.err
}

func TestServiceRefresh_UsesFreshCache(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	fetcher := &stubFetcher{snap: models.WeatherSnapshot{Code: 1, Text: "Sunny", FetchedAt: now}}
	svc := NewService(NewCache(time.Hour), fetcher)

	if _, err := svc.Refresh(context.Background(), "beijing", false, now); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "beijing", false, now.Add(30*time.Minute)); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected cached snapshot to be reused, got %d fetches", fetcher.calls)
	}

	if _, err := svc.Refresh(context.Background(), "beijing", true, now.Add(31*time.Minute)); err != nil {
		t.Fatalf("forced refresh failed: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("forced refresh must fetch, got %d fetches", fetcher.calls)
	}

	if _, err := svc.Refresh(context.Background(), "beijing", false, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("expired refresh failed: %v", err)
	}
	if fetcher.calls != 3 {
		t.Errorf("expired cache must fetch, got %d fetches", fetcher.calls)
	}
}

func TestServiceRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	cache := NewCache(time.Hour)
	cache.Store(models.WeatherSnapshot{Code: 4, FetchedAt: now.Add(-2 * time.Hour)})

	svc := NewService(cache, &stubFetcher{err: errors.New("timeout")})
	if _, err := svc.Refresh(context.Background(), "beijing", false, now); err == nil {
		t.Fatal("expected fetch error")
	}
	if snap := svc.CurrentSnapshot(); snap == nil || snap.Code != 4 {
		t.Errorf("previous snapshot should survive a failed fetch, got %+v", snap)
	}
}

func TestServiceRefresh_NoFetcher(t *testing.T) {
	svc := NewService(NewCache(0), nil)
	if _, err := svc.Refresh(context.Background(), "beijing", false, time.Now()); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestDebugSnapshot(t *testing.T) {
	s := models.DefaultSettings()
	s.DebugWeatherCode = 22
	snap := DebugSnapshot(s, time.Now())
	if snap.Condition != models.ConditionSnowy || snap.Text != s.DebugWeatherText {
		t.Errorf("unexpected debug snapshot %+v", snap)
	}
}
