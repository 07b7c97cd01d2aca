package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julianstephens/envsync/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key")
	c.BaseURL = srv.URL
	c.Now = func() time.Time { return time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchNow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather/now.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" || r.URL.Query().Get("location") != "beijing" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results":[{"now":{"text":"Thunder Shower","code":"11","temperature":"24"}}]}`))
	})

	snap, err := c.FetchNow(context.Background(), "beijing")
	if err != nil {
		t.Fatalf("FetchNow failed: %v", err)
	}
	if snap.Code != 11 || snap.TemperatureCelsius != 24 || snap.Text != "Thunder Shower" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Condition != models.ConditionRainy {
		t.Errorf("Condition = %v, want Rainy", snap.Condition)
	}
	if snap.FetchedAt.IsZero() {
		t.Error("FetchedAt not stamped")
	}
}

func TestFetchNow_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"The API key is invalid.","status_code":"AP010003"}`))
	})
	if _, err := c.FetchNow(context.Background(), "beijing"); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestFetchNow_HTTPFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})
	if _, err := c.FetchNow(context.Background(), "beijing"); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestFetchNow_NoKey(t *testing.T) {
	c := NewClient("")
	if _, err := c.FetchNow(context.Background(), "beijing"); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestFetchSun(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/sun.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"results":[{"sun":[{"date":"2026-10-16","sunrise":"06:21","sunset":"17:36"}]}]}`))
	})

	sun, err := c.FetchSun(context.Background(), "beijing")
	if err != nil {
		t.Fatalf("FetchSun failed: %v", err)
	}
	if sun.Sunrise != "06:21" || sun.Sunset != "17:36" {
		t.Errorf("unexpected sun times %+v", sun)
	}
}

func TestFetchSun_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"sun":[]}]}`))
	})
	if _, err := c.FetchSun(context.Background(), "beijing"); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}
