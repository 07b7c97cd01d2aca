// Package cli holds the kong command implementations.
package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/julianstephens/envsync/internal/actuator"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/daemon"
	"github.com/julianstephens/envsync/internal/hostbridge"
	"github.com/julianstephens/envsync/internal/keyring"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/rules"
	"github.com/julianstephens/envsync/internal/storage"
	"github.com/julianstephens/envsync/internal/weather"
)

// simulatedLatency is the toggle delay of the in-memory host.
const simulatedLatency = 200 * time.Millisecond

type Context struct {
	Store     storage.Provider
	ConfigDir string
	Now       func() time.Time
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// HostFlags selects the actuator for commands that drive a host.
type HostFlags struct {
	Simulate bool   `help:"Drive an in-memory simulated host instead of the host bridge."`
	HostDir  string `help:"Directory holding the host lockfile (overrides the host_dir setting)." type:"path"`
}

// LoadRules returns the default rule set with rules.yaml from the config directory applied.
func (c *Context) LoadRules() *rules.Set {
	set := rules.DefaultSet()
	path := filepath.Join(c.ConfigDir, constants.RulesFileName)
	tuning, err := rules.LoadTuning(path)
	if err != nil {
		logger.Warn("Ignoring rule tuning file", "path", path, "error", err)
		return set
	}
	if err := set.ApplyTuning(tuning); err != nil {
		logger.Warn("Invalid rule tuning", "path", path, "error", err)
	}
	return set
}

type automation struct {
	runner *daemon.Runner
	host   actuator.Actuator
	rules  *rules.Set
	bridge *hostbridge.Client
	memory *actuator.Memory
}

func (c *Context) newAutomation(flags HostFlags) (*automation, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, err
	}

	a := &automation{rules: c.LoadRules()}
	if flags.Simulate {
		a.memory = actuator.NewMemory(actuator.WithLatency(simulatedLatency))
		a.host = a.memory
	} else {
		override := flags.HostDir
		if override == "" {
			override = settings.HostDir
		}
		dir, err := hostbridge.HostDir(override)
		if err != nil {
			return nil, err
		}
		ep, err := hostbridge.Discover(dir)
		if err != nil {
			return nil, err
		}
		a.bridge = hostbridge.NewClient(ep)
		a.host = a.bridge
	}

	cfg := daemon.Config{
		Store:    c.Store,
		Actuator: a.host,
		Rules:    a.rules,
		Weather:  weather.NewService(weather.NewCache(constants.WeatherFreshness), nil),
		Now:      c.Now,
	}
	if client := weatherClient(); client != nil {
		cfg.Weather = weather.NewService(weather.NewCache(constants.WeatherFreshness), client)
		cfg.Sun = client
	}
	a.runner = daemon.New(cfg)
	return a, nil
}

func weatherClient() *weather.Client {
	key, source, err := keyring.ResolveAPIKey()
	if err != nil {
		logger.Debug("No weather API key", "error", err)
		return nil
	}
	logger.Debug("Weather API key resolved", "source", source)
	return weather.NewClient(key)
}

// start reports the host ready once it answers and begins polling user toggles.
func (a *automation) start(ctx context.Context) {
	if a.bridge == nil {
		a.runner.HostReady()
		return
	}
	go func() {
		ticker := time.NewTicker(constants.HostPollInterval)
		defer ticker.Stop()
		for {
			err := a.bridge.Ping(ctx)
			if err == nil {
				break
			}
			logger.Debug("Waiting for host", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
		a.runner.HostReady()
		a.bridge.PollUserToggles(ctx, constants.HostPollInterval)
	}()
}
