package weather

import (
	"context"
	"time"

	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

// Fetcher retrieves a fresh snapshot for a location.
type Fetcher interface {
	FetchNow(ctx context.Context, location string) (models.WeatherSnapshot, error)
}

// SunFetcher retrieves today's sunrise and sunset for a location.
type SunFetcher interface {
	FetchSun(ctx context.Context, location string) (models.SunTimes, error)
}

// Service owns the weather cache and refreshes it from a Fetcher.
type Service struct {
	cache   *Cache
	fetcher Fetcher
}

// NewService wires a cache to a fetcher. fetcher may be nil when weather sync is off.
func NewService(cache *Cache, fetcher Fetcher) *Service {
	return &Service{cache: cache, fetcher: fetcher}
}

// Cache exposes the read side to the engine.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Enabled reports whether the service can fetch at all.
func (s *Service) Enabled() bool {
	return s.fetcher != nil
}

// CurrentSnapshot returns the cached snapshot or nil.
func (s *Service) CurrentSnapshot() *models.WeatherSnapshot {
	return s.cache.Current()
}

// Refresh returns the cached snapshot while it is fresh, otherwise fetches a new one.
// A fetch failure leaves the previous snapshot in place and returns the error.
func (s *Service) Refresh(ctx context.Context, location string, force bool, now time.Time) (*models.WeatherSnapshot, error) {
	if !force && s.cache.Fresh(now) {
		return s.cache.Current(), nil
	}
	if s.fetcher == nil {
		return nil, ErrNoAPIKey
	}

	logger.Info("Requesting weather", "location", location)
	snap, err := s.fetcher.FetchNow(ctx, location)
	if err != nil {
		logger.Warn("Weather request failed", "location", location, "error", err)
		return nil, err
	}
	s.cache.Store(snap)
	logger.Info("Weather updated", "weather", snap.String())
	return &snap, nil
}

// DebugSnapshot builds the simulated snapshot configured in settings.
func DebugSnapshot(settings models.Settings, now time.Time) models.WeatherSnapshot {
	return models.WeatherSnapshot{
		Code:               settings.DebugWeatherCode,
		Text:               settings.DebugWeatherText,
		TemperatureCelsius: settings.DebugWeatherTemp,
		Condition:          ConditionForCode(settings.DebugWeatherCode),
		FetchedAt:          now,
	}
}
