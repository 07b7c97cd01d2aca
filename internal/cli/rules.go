package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/rules"
)

// RulesCmd lists the rule set in activation order.
type RulesCmd struct {
	All bool `help:"Include rules disabled by rules.yaml."`
}

func (c *RulesCmd) Run(ctx *Context) error {
	set := ctx.LoadRules()
	enabled := map[string]bool{}
	for _, r := range set.Rules() {
		enabled[r.Name] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tRULE\tSLOT\tENABLED\tNOTES")
	for i, r := range rules.DefaultSet().Rules() {
		if !enabled[r.Name] && !c.All {
			continue
		}
		note := ""
		if r.Suspends {
			note = "suspends environment switching"
		}
		if r.Slot == rules.HardOverrideSlot {
			note = "hard override"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%v\t%s\n", i+1, r.Name, r.Slot, enabled[r.Name], note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Daily probabilities:")
	for _, key := range oddsKeys {
		printField(os.Stdout, key, fmt.Sprintf("%.4f%%", set.Odds(key)*100))
	}
	return nil
}

var oddsKeys = []string{
	rules.OddsSpace,
	rules.OddsBlueButterfly,
	rules.OddsWindBell,
	rules.OddsHotSpring,
	rules.OddsHotSpringSnow,
	rules.OddsWhale,
}

// SlotsCmd lists every known slot.
type SlotsCmd struct{}

func (c *SlotsCmd) Run(ctx *Context) error {
	set := ctx.LoadRules()
	environment := map[models.Slot]string{}
	for _, env := range models.BaseEnvironments {
		environment[env.Slot()] = "base environment"
	}
	for _, slot := range models.PrecipitationSlots {
		environment[slot] = "precipitation overlay"
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tDRIVEN BY")
	for _, slot := range models.AllSlots() {
		driver := environment[slot]
		if r, ok := set.ForSlot(slot); ok {
			driver = "rule " + r.Name
		} else if slot == rules.HardOverrideSlot {
			driver = "user only (hard override)"
		}
		if driver == "" {
			driver = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", slot, driver)
	}
	return w.Flush()
}
