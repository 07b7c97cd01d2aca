package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/hostbridge"
	"github.com/julianstephens/envsync/internal/keyring"
	"github.com/julianstephens/envsync/internal/migration"
	"github.com/julianstephens/envsync/internal/rules"
	"github.com/julianstephens/envsync/internal/storage/postgres"
	"github.com/julianstephens/envsync/internal/storage/sqlite"
	"github.com/julianstephens/envsync/migrations"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *Context) error
	warning bool // failure is reported but does not fail the run
	needsDB bool
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Sun schedule", run: checkSunSchedule, needsDB: true},
		{name: "Clock/timezone", run: func(*Context) error { return checkClockTimezone() }},
		{name: "Rule tuning", run: checkRuleTuning},
		{name: "Weather API key", run: checkWeatherKey, needsDB: true},
		{name: "OS keyring", run: func(*Context) error { return checkKeyring() }, warning: true},
		{name: "Host bridge", run: checkHostBridge, warning: true, needsDB: true},
	}

	hasError := false
	dbReachable := false
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func latestSchemaVersion(ctx *Context) (int, error) {
	var dir string
	switch ctx.Store.(type) {
	case *sqlite.Store:
		dir = "sqlite"
	case *postgres.Store:
		dir = "postgres"
	default:
		return 0, errors.New("unknown storage backend")
	}
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return 0, err
	}
	return migration.NewRunner(nil, sub).GetLatestVersion()
}

func checkSchemaVersion(ctx *Context) error {
	current, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := latestSchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkSunSchedule(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if _, err := calendar.ParseSunSchedule(settings.Sunrise, settings.Sunset); err != nil {
		return fmt.Errorf("sunrise %q / sunset %q: %w", settings.Sunrise, settings.Sunset, err)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkRuleTuning(ctx *Context) error {
	path := filepath.Join(ctx.ConfigDir, constants.RulesFileName)
	tuning, err := rules.LoadTuning(path)
	if err != nil {
		return err
	}
	return rules.DefaultSet().ApplyTuning(tuning)
}

func checkWeatherKey(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !settings.WeatherSyncEnabled {
		return nil
	}
	if _, _, err := keyring.ResolveAPIKey(); err != nil {
		return fmt.Errorf("weather sync is enabled but no API key is set (keyring or %s): %w", constants.WeatherKeyEnv, err)
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkHostBridge(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	dir, err := hostbridge.HostDir(settings.HostDir)
	if err != nil {
		return err
	}
	if _, err := hostbridge.Discover(dir); err != nil {
		return fmt.Errorf("%w (use --simulate to run without a host)", err)
	}
	return nil
}
