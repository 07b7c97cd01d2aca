package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database, config and log paths."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
	DumpEvents   *DebugDumpEventsCmd   `cmd:"" help:"Dump automation events as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return printJSON(os.Stdout, map[string]string{
		"path":       ctx.Store.GetConfigPath(),
		"config_dir": ctx.ConfigDir,
		"log":        logger.Path(ctx.ConfigDir),
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(os.Stdout, settings)
}

type DebugDumpEventsCmd struct {
	Slot  string `arg:"" optional:"" help:"Slot to filter on."`
	Limit int    `help:"Maximum number of events." default:"100"`
}

func (cmd *DebugDumpEventsCmd) Run(ctx *Context) error {
	var slot models.Slot
	if cmd.Slot != "" {
		s, err := models.ParseSlot(cmd.Slot)
		if err != nil {
			return err
		}
		slot = s
	}
	events, err := ctx.Store.RecentEvents(slot, cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}
	if events == nil {
		events = []models.AutomationEvent{}
	}
	return printJSON(os.Stdout, events)
}
