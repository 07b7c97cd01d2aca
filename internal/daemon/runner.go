// Package daemon drives the rule engine and the environment decider from one loop.
// Every piece of automation state is touched only by the goroutine running Run.
// Weather and sun fetches run in the background and hand their results back to the
// loop as closures.
package daemon

import (
	"context"
	"time"

	"github.com/julianstephens/envsync/internal/actuator"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/engine"
	"github.com/julianstephens/envsync/internal/environment"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/rules"
	"github.com/julianstephens/envsync/internal/sunsync"
	"github.com/julianstephens/envsync/internal/weather"
)

// Store is the persistence the daemon needs.
type Store interface {
	GetSettings() (models.Settings, error)
	SaveSettings(settings models.Settings) error
	AppendEvent(event models.AutomationEvent) error
}

// Intervals controls how often each part of the loop runs.
type Intervals struct {
	Reconcile   time.Duration
	Verify      time.Duration
	Environment time.Duration
	SunSync     time.Duration
	Startup     time.Duration
}

func DefaultIntervals() Intervals {
	return Intervals{
		Reconcile:   constants.ReconcileInterval,
		Verify:      constants.VerifyPollInterval,
		Environment: constants.EnvironmentInterval,
		SunSync:     constants.SunSyncCheckInterval,
		Startup:     constants.StartupDelay,
	}
}

// Config wires the runner to its collaborators. Weather, Sun, Now and Random are optional.
type Config struct {
	Store     Store
	Actuator  actuator.Actuator
	Rules     *rules.Set
	Weather   *weather.Service
	Sun       weather.SunFetcher
	Now       func() time.Time
	Random    rules.RandomSource
	Intervals Intervals
}

type command int

const (
	cmdHostReady command = iota
	cmdForceReconcile
	cmdShowStatus
	cmdForceWeather
)

func (c command) String() string {
	switch c {
	case cmdHostReady:
		return "host-ready"
	case cmdForceReconcile:
		return "force-reconcile"
	case cmdShowStatus:
		return "show-status"
	case cmdForceWeather:
		return "force-weather"
	default:
		return "unknown"
	}
}

type Runner struct {
	store     Store
	engine    *engine.Engine
	decider   *environment.Decider
	weather   *weather.Service
	syncer    *sunsync.Syncer
	now       func() time.Time
	intervals Intervals

	settings models.Settings
	snapshot *models.WeatherSnapshot
	ready    bool
	envLive  bool
	fetching bool
	// last weather request, paced by refresh_minutes
	weatherAt time.Time

	cmds      chan command
	toggles   chan models.Slot
	statusReq chan chan Snapshot
	results   chan func()
	done      chan struct{}
}

func New(cfg Config) *Runner {
	r := &Runner{
		store:     cfg.Store,
		weather:   cfg.Weather,
		now:       cfg.Now,
		intervals: cfg.Intervals,
		settings:  models.DefaultSettings(),
		cmds:      make(chan command, 16),
		toggles:   make(chan models.Slot, 64),
		statusReq: make(chan chan Snapshot),
		results:   make(chan func(), 8),
		done:      make(chan struct{}),
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.weather == nil {
		r.weather = weather.NewService(weather.NewCache(constants.WeatherFreshness), nil)
	}
	if r.intervals == (Intervals{}) {
		r.intervals = DefaultIntervals()
	}

	set := cfg.Rules
	if set == nil {
		set = rules.DefaultSet()
	}
	opts := []engine.Option{engine.WithEvents(cfg.Store)}
	if cfg.Random != nil {
		opts = append(opts, engine.WithRandom(cfg.Random))
	}
	r.engine = engine.New(set, cfg.Actuator, r, opts...)
	r.decider = environment.NewDecider(cfg.Actuator, r.engine, cfg.Store)
	r.syncer = sunsync.New(cfg.Sun, cfg.Store)

	if src, ok := cfg.Actuator.(actuator.UserToggleSource); ok {
		src.OnUserToggle(r.UserToggle)
	}
	return r
}

// CurrentSnapshot feeds the rule engine. Only called from the loop goroutine.
func (r *Runner) CurrentSnapshot() *models.WeatherSnapshot {
	if r.snapshot == nil {
		return nil
	}
	snap := *r.snapshot
	return &snap
}

// Engine exposes the rule engine for one-shot commands that do not start the loop.
func (r *Runner) Engine() *engine.Engine {
	return r.engine
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)

	if err := r.reloadSettings(); err != nil {
		logger.Warn("Failed to load settings, using defaults", "error", err)
	}
	logger.Info("Daemon started", "automation", r.settings.AutomationEnabled, "weather_sync", r.settings.WeatherSyncEnabled)

	reconcile := time.NewTicker(r.intervals.Reconcile)
	defer reconcile.Stop()
	verify := time.NewTicker(r.intervals.Verify)
	defer verify.Stop()
	env := time.NewTicker(r.intervals.Environment)
	defer env.Stop()
	sun := time.NewTicker(r.intervals.SunSync)
	defer sun.Stop()

	var startup <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("Daemon stopped")
			return nil
		case <-reconcile.C:
			r.reconcile(r.now())
		case <-verify.C:
			r.engine.ProcessPending(r.now())
		case <-env.C:
			if r.envLive {
				r.environmentCycle(ctx, r.now(), false, false)
			}
		case <-sun.C:
			if r.envLive {
				r.maybeSyncSun(ctx, r.now())
			}
		case <-startup:
			startup = nil
			r.envLive = true
			r.environmentCycle(ctx, r.now(), false, false)
		case slot := <-r.toggles:
			r.engine.HandleUserToggle(slot, r.now())
		case reply := <-r.statusReq:
			reply <- r.status()
		case fn := <-r.results:
			fn()
		case cmd := <-r.cmds:
			if r.handle(ctx, cmd) && startup == nil && !r.envLive {
				startup = time.After(r.intervals.Startup)
			}
		}
	}
}

// handle runs a command on the loop. It reports true when the host just became ready.
func (r *Runner) handle(ctx context.Context, cmd command) bool {
	now := r.now()
	logger.Debug("Command", "command", cmd.String())
	switch cmd {
	case cmdHostReady:
		if r.ready {
			return false
		}
		r.ready = true
		logger.Info("Host ready", "startup_delay", r.intervals.Startup)
		return true
	case cmdForceReconcile:
		r.reconcile(now)
		if r.ready {
			r.environmentCycle(ctx, now, false, true)
		}
	case cmdShowStatus:
		r.logStatus()
	case cmdForceWeather:
		if err := r.reloadSettings(); err != nil {
			logger.Warn("Failed to reload settings", "error", err)
		}
		if r.ready {
			r.environmentCycle(ctx, now, true, true)
		}
	}
	return false
}

// HostReady starts reconciliation and schedules the first environment cycle.
func (r *Runner) HostReady() { r.send(cmdHostReady) }

// ForceReconcile runs a rule pass and a forced environment apply immediately.
func (r *Runner) ForceReconcile() { r.send(cmdForceReconcile) }

// ShowStatus writes the automation state to the log.
func (r *Runner) ShowStatus() { r.send(cmdShowStatus) }

// ForceWeatherRefresh reloads settings and refetches weather ignoring the cache.
func (r *Runner) ForceWeatherRefresh() { r.send(cmdForceWeather) }

// UserToggle reports that a human flipped slot. Safe to call from any goroutine.
func (r *Runner) UserToggle(slot models.Slot) {
	select {
	case r.toggles <- slot:
	case <-r.done:
	}
}

func (r *Runner) send(cmd command) {
	select {
	case r.cmds <- cmd:
	case <-r.done:
	}
}

// post hands a background result back to the loop.
func (r *Runner) post(fn func()) {
	select {
	case r.results <- fn:
	case <-r.done:
	}
}
