package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/environment"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/weather"
)

// DecideCmd prints the environment decision without touching any host.
type DecideCmd struct {
	At      string `help:"Time of day to decide for (HH:MM). Defaults to now."`
	Code    *int   `help:"Weather code to decide with. Defaults to the debug weather when enabled, else none."`
	Sunrise string `help:"Override the configured sunrise (HH:MM)."`
	Sunset  string `help:"Override the configured sunset (HH:MM)."`
	JSON    bool   `help:"Output as JSON."`
}

func (c *DecideCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if c.Sunrise != "" {
		settings.Sunrise = c.Sunrise
	}
	if c.Sunset != "" {
		settings.Sunset = c.Sunset
	}

	now := ctx.now()
	if c.At != "" {
		clock, err := time.Parse(constants.TimeFormat, c.At)
		if err != nil {
			return fmt.Errorf("--at must be HH:MM: %w", err)
		}
		now = time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	}

	sched, err := calendar.ParseSunSchedule(settings.Sunrise, settings.Sunset)
	if err != nil {
		return fmt.Errorf("invalid sun schedule: %w", err)
	}

	var snap *models.WeatherSnapshot
	switch {
	case c.Code != nil:
		s := models.WeatherSnapshot{Code: *c.Code, Condition: weather.ConditionForCode(*c.Code), FetchedAt: now}
		snap = &s
	case settings.DebugWeather:
		s := weather.DebugSnapshot(settings, now)
		snap = &s
	}

	dec := environment.Decide(now, sched, snap)
	if c.JSON {
		return printJSON(os.Stdout, map[string]string{
			"base":    dec.Base.String(),
			"overlay": dec.Overlay.String(),
			"at":      now.Format(constants.TimeFormat),
		})
	}
	fmt.Println(dec.String())
	return nil
}
