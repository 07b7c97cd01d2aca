package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/julianstephens/envsync/internal/models"
)

type SettingsShowCmd struct {
	JSON bool `help:"Output as JSON."`
}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if c.JSON {
		return printJSON(os.Stdout, settings)
	}

	m := models.SettingsToMap(settings)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("Current Settings:")
	for _, k := range keys {
		printField(os.Stdout, k, m[k])
	}
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key, e.g. sunrise or weather_sync_enabled."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := models.SetSetting(&settings, c.Key, c.Value); err != nil {
		return err
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("Set %s = %s\n", c.Key, c.Value)
	return nil
}
