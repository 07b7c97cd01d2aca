package daemon

import (
	"context"
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/weather"
)

func (r *Runner) reloadSettings() error {
	settings, err := r.store.GetSettings()
	if err != nil {
		return err
	}
	models.ApplyDefaultSettings(&settings)
	r.settings = settings
	return nil
}

func (r *Runner) reconcile(now time.Time) {
	if !r.ready {
		return
	}
	if !r.settings.AutomationEnabled {
		r.engine.ProcessPending(now)
		return
	}
	r.engine.Tick(now)
}

// environmentCycle picks the weather source for this cycle and applies the decision.
// With weather sync on and a stale cache, the apply happens once the fetch returns.
func (r *Runner) environmentCycle(ctx context.Context, now time.Time, refresh, force bool) {
	if err := r.reloadSettings(); err != nil {
		logger.Warn("Failed to reload settings", "error", err)
	}

	switch {
	case r.settings.DebugWeather:
		snap := weather.DebugSnapshot(r.settings, now)
		r.snapshot = &snap
		r.applyEnvironment(now, force)
	case r.settings.WeatherSyncEnabled && r.weather.Enabled():
		refresh = refresh || r.weatherDue(now)
		if !refresh && r.weather.Cache().Fresh(now) {
			r.snapshot = r.weather.CurrentSnapshot()
			r.applyEnvironment(now, force)
			return
		}
		r.refreshWeather(ctx, now, refresh, force)
	default:
		r.snapshot = nil
		r.applyEnvironment(now, force)
	}
}

func (r *Runner) refreshWeather(ctx context.Context, now time.Time, refresh, force bool) {
	if r.fetching {
		logger.Debug("Weather fetch already in flight")
		return
	}
	r.fetching = true
	r.weatherAt = now
	location := r.settings.Location

	go func() {
		fctx, cancel := context.WithTimeout(ctx, constants.WeatherTimeout)
		defer cancel()
		snap, err := r.weather.Refresh(fctx, location, refresh, now)
		r.post(func() {
			r.fetching = false
			if err != nil {
				logger.Warn("Weather unavailable, using time-based environment", "error", err)
				r.snapshot = nil
			} else {
				r.snapshot = snap
			}
			r.applyEnvironment(r.now(), force)
		})
	}()
}

// weatherDue reports whether refresh_minutes have passed since the last weather request.
func (r *Runner) weatherDue(now time.Time) bool {
	if r.weatherAt.IsZero() {
		return true
	}
	minutes := r.settings.RefreshMinutes
	if minutes < 1 {
		minutes = 1
	}
	return now.Sub(r.weatherAt) >= time.Duration(minutes)*time.Minute
}

func (r *Runner) applyEnvironment(now time.Time, force bool) {
	sched, err := calendar.ParseSunSchedule(r.settings.Sunrise, r.settings.Sunset)
	if err != nil {
		logger.Warn("Invalid sun schedule, using defaults", "sunrise", r.settings.Sunrise, "sunset", r.settings.Sunset, "error", err)
		sched = calendar.DefaultSunSchedule()
	}
	r.decider.Apply(now, sched, r.snapshot, force)
}

func (r *Runner) maybeSyncSun(ctx context.Context, now time.Time) {
	if !r.syncer.Due(now, r.settings) {
		return
	}
	location := r.settings.Location

	go func() {
		fctx, cancel := context.WithTimeout(ctx, constants.SunTimeout)
		defer cancel()
		sun, err := r.syncer.Fetch(fctx, location)
		r.post(func() {
			if err := r.syncer.Complete(r.now(), sun, err); err != nil {
				logger.Warn("Sun sync attempt failed", "error", err)
				return
			}
			if err := r.reloadSettings(); err != nil {
				logger.Warn("Failed to reload settings", "error", err)
			}
		})
	}()
}

// Once runs one reconcile pass and one environment pass synchronously, for one-shot
// commands that do not start the loop. Weather is fetched inline when sync is on.
func (r *Runner) Once(ctx context.Context, now time.Time) Snapshot {
	if err := r.reloadSettings(); err != nil {
		logger.Warn("Failed to load settings, using defaults", "error", err)
	}
	r.ready = true

	switch {
	case r.settings.DebugWeather:
		snap := weather.DebugSnapshot(r.settings, now)
		r.snapshot = &snap
	case r.settings.WeatherSyncEnabled && r.weather.Enabled():
		fctx, cancel := context.WithTimeout(ctx, constants.WeatherTimeout)
		snap, err := r.weather.Refresh(fctx, r.settings.Location, false, now)
		cancel()
		if err != nil {
			logger.Warn("Weather unavailable, using time-based environment", "error", err)
		}
		r.snapshot = snap
	default:
		r.snapshot = nil
	}

	r.reconcile(now)
	r.applyEnvironment(now, false)
	return r.status()
}
