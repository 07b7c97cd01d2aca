package weather

import (
	"sync"
	"time"

	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/models"
)

// Cache holds the most recent weather snapshot. Fetches write it from a background
// goroutine while the reconcile loop reads it, so access is guarded.
type Cache struct {
	mu        sync.RWMutex
	snapshot  *models.WeatherSnapshot
	freshness time.Duration
}

// NewCache creates an empty cache with the given freshness window.
func NewCache(freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = constants.WeatherFreshness
	}
	return &Cache{freshness: freshness}
}

// Current returns a copy of the cached snapshot, or nil when nothing was fetched yet.
func (c *Cache) Current() *models.WeatherSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil
	}
	snap := *c.snapshot
	return &snap
}

// Store replaces the cached snapshot.
func (c *Cache) Store(snap models.WeatherSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = &snap
}

// Fresh reports whether the cached snapshot is younger than the freshness window.
func (c *Cache) Fresh(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot != nil && now.Sub(c.snapshot.FetchedAt) < c.freshness
}

// Clear drops the cached snapshot.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
