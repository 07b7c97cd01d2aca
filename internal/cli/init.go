package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/storage"
)

type InitCmd struct {
	Force       bool `help:"Delete an existing SQLite database before initializing."`
	Interactive bool `short:"i" help:"Walk through the main settings in a form."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if storage.IsPostgres(dbPath) || dbPath == "postgresql" {
			return fmt.Errorf("--force is only supported for SQLite databases")
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	// snapshot an existing database before migrations touch it
	if !c.Force {
		if mgr, err := ctx.backupManager(); err == nil {
			if _, statErr := os.Stat(ctx.Store.GetConfigPath()); statErr == nil {
				path, err := mgr.Create()
				if err != nil {
					return fmt.Errorf("failed to back up existing database: %w", err)
				}
				fmt.Printf("Backed up existing database to: %s\n", path)
			}
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized envsync storage at: %s\n", ctx.Store.GetConfigPath())

	if !c.Interactive {
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	fm := newSettingsForm(settings)
	if err := fm.form().Run(); err != nil {
		return fmt.Errorf("settings form: %w", err)
	}
	updated, err := fm.apply(settings)
	if err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings saved.")
	return nil
}

// settingsForm is the editable subset of settings shown by `init -i`.
type settingsForm struct {
	Sunrise           string
	Sunset            string
	Location          string
	RefreshMinutes    string
	WeatherSync       bool
	AutomationEnabled bool
}

func newSettingsForm(s models.Settings) *settingsForm {
	return &settingsForm{
		Sunrise:           s.Sunrise,
		Sunset:            s.Sunset,
		Location:          s.Location,
		RefreshMinutes:    strconv.Itoa(s.RefreshMinutes),
		WeatherSync:       s.WeatherSyncEnabled,
		AutomationEnabled: s.AutomationEnabled,
	}
}

func validateClock(s string) error {
	if _, err := time.Parse(constants.TimeFormat, s); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func (fm *settingsForm) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sunrise").
				Value(&fm.Sunrise).
				Validate(validateClock),
			huh.NewInput().
				Title("Sunset").
				Value(&fm.Sunset).
				Validate(validateClock),
			huh.NewInput().
				Title("Location").
				Description("City name or \"ip\" for the weather provider").
				Value(&fm.Location).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("location is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Weather refresh (min)").
				Value(&fm.RefreshMinutes).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("refresh interval must be a positive number of minutes")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Sync weather and sun times?").
				Value(&fm.WeatherSync),
			huh.NewConfirm().
				Title("Enable scenery automation?").
				Value(&fm.AutomationEnabled),
		),
	)
}

func (fm *settingsForm) apply(s models.Settings) (models.Settings, error) {
	if err := validateClock(fm.Sunrise); err != nil {
		return s, fmt.Errorf("sunrise: %w", err)
	}
	if err := validateClock(fm.Sunset); err != nil {
		return s, fmt.Errorf("sunset: %w", err)
	}
	refresh, err := strconv.Atoi(fm.RefreshMinutes)
	if err != nil || refresh <= 0 {
		return s, fmt.Errorf("refresh interval must be a positive number of minutes")
	}
	s.Sunrise = fm.Sunrise
	s.Sunset = fm.Sunset
	s.Location = strings.TrimSpace(fm.Location)
	s.RefreshMinutes = refresh
	s.WeatherSyncEnabled = fm.WeatherSync
	s.AutomationEnabled = fm.AutomationEnabled
	return s, nil
}
