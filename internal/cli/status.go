package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/environment"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/rules"
	"github.com/julianstephens/envsync/internal/weather"
)

// StatusCmd shows what automation would do right now. With --simulate it runs one
// full cycle against an in-memory host.
type StatusCmd struct {
	Simulate bool `help:"Run one cycle against an in-memory simulated host."`
	JSON     bool `help:"Output as JSON."`
}

type dryStatus struct {
	Settings    models.Settings         `json:"settings"`
	Environment string                  `json:"environment"`
	Weather     *models.WeatherSnapshot `json:"weather,omitempty"`
	Matching    []string                `json:"matching_rules"`
}

func (c *StatusCmd) Run(ctx *Context) error {
	if c.Simulate {
		auto, err := ctx.newAutomation(HostFlags{Simulate: true})
		if err != nil {
			return err
		}
		st := auto.runner.Once(context.Background(), ctx.now())
		if c.JSON {
			return printJSON(os.Stdout, st)
		}
		printSnapshot(os.Stdout, st)
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	now := ctx.now()

	var snap *models.WeatherSnapshot
	if settings.DebugWeather {
		s := weather.DebugSnapshot(settings, now)
		snap = &s
	}
	sched, err := calendar.ParseSunSchedule(settings.Sunrise, settings.Sunset)
	if err != nil {
		sched = calendar.DefaultSunSchedule()
	}

	out := dryStatus{
		Settings:    settings,
		Environment: environment.Decide(now, sched, snap).String(),
		Weather:     snap,
		Matching:    matchingRules(ctx.LoadRules(), now, snap),
	}
	if c.JSON {
		return printJSON(os.Stdout, out)
	}

	printField(os.Stdout, "Time", now.Format("2006-01-02 15:04"))
	printField(os.Stdout, "Environment", out.Environment)
	printField(os.Stdout, "Sun", settings.Sunrise+" - "+settings.Sunset)
	printField(os.Stdout, "Weather sync", settings.WeatherSyncEnabled)
	printField(os.Stdout, "Automation", settings.AutomationEnabled)
	matching := "-"
	if len(out.Matching) > 0 {
		matching = strings.Join(out.Matching, ", ")
	}
	printField(os.Stdout, "Matching rules", matching)
	return nil
}

// matchingRules evaluates every rule without a random source, so daily rolls never hit.
func matchingRules(set *rules.Set, now time.Time, snap *models.WeatherSnapshot) []string {
	var out []string
	ev := rules.Evaluation{Now: now, Weather: snap}
	for _, r := range set.Rules() {
		if set.Evaluate(r, ev) {
			out = append(out, r.Name)
		}
	}
	return out
}
