package sunsync

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/weather"
)

// SettingsStore is the part of storage the syncer persists into.
type SettingsStore interface {
	GetSettings() (models.Settings, error)
	SaveSettings(settings models.Settings) error
}

// Syncer fetches the sun schedule at most once per day. Attempts are started by the
// caller when Due reports true and finished with Complete, so a slow provider never
// blocks the caller's loop.
type Syncer struct {
	fetcher weather.SunFetcher
	store   SettingsStore

	date     string
	retry    *Retry
	gaveUp   string
	inFlight bool
}

func New(fetcher weather.SunFetcher, store SettingsStore) *Syncer {
	return &Syncer{fetcher: fetcher, store: store}
}

// Due reports whether an attempt should start now and marks it in flight.
func (s *Syncer) Due(now time.Time, settings models.Settings) bool {
	if s.fetcher == nil || !settings.WeatherSyncEnabled || s.inFlight {
		return false
	}
	today := calendar.DateKey(now)
	if settings.LastSunSyncDate == today || s.gaveUp == today {
		return false
	}
	if s.retry == nil || s.date != today {
		s.date = today
		s.retry = NewRetry(now)
	}
	if !s.retry.Due(now) {
		return false
	}
	s.inFlight = true
	return true
}

// Fetch performs one attempt against the provider.
func (s *Syncer) Fetch(ctx context.Context, location string) (models.SunTimes, error) {
	return s.fetcher.FetchSun(ctx, location)
}

// Complete finishes the in-flight attempt. Success persists the new schedule; failure
// schedules a retry or gives up for the day once attempts run out.
func (s *Syncer) Complete(now time.Time, sun models.SunTimes, fetchErr error) error {
	s.inFlight = false
	if s.retry == nil {
		return nil
	}

	if fetchErr == nil {
		fetchErr = s.persist(sun)
	}
	if fetchErr == nil {
		logger.Info("Sun schedule synced", "sunrise", sun.Sunrise, "sunset", sun.Sunset, "date", s.date)
		s.retry = nil
		return nil
	}

	s.retry.Fail(now)
	if s.retry.Exhausted() {
		logger.Error("Sun sync retries exhausted, giving up for today", "attempts", s.retry.Attempt, "error", fetchErr)
		s.gaveUp = s.date
		s.retry = nil
		return fetchErr
	}
	logger.Warn("Sun sync failed, retrying",
		"in", s.retry.NextAt.Sub(now), "attempt", s.retry.Attempt, "max", s.retry.MaxAttempts, "error", fetchErr)
	return fetchErr
}

// Pending returns the active retry task, or nil.
func (s *Syncer) Pending() *Retry {
	return s.retry
}

// GaveUp reports whether syncing was abandoned for date.
func (s *Syncer) GaveUp(date string) bool {
	return s.gaveUp == date
}

func (s *Syncer) persist(sun models.SunTimes) error {
	if _, err := calendar.ParseSunSchedule(sun.Sunrise, sun.Sunset); err != nil {
		return fmt.Errorf("provider returned an unusable schedule: %w", err)
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings.Sunrise = sun.Sunrise
	settings.Sunset = sun.Sunset
	settings.LastSunSyncDate = s.date
	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
