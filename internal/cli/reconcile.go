package cli

import (
	"context"
	"os"
)

// ReconcileCmd runs one rule pass and one environment pass against the host and exits.
type ReconcileCmd struct {
	HostFlags `embed:""`
	JSON      bool `help:"Output as JSON."`
}

func (c *ReconcileCmd) Run(ctx *Context) error {
	auto, err := ctx.newAutomation(c.HostFlags)
	if err != nil {
		return err
	}
	if auto.bridge != nil {
		if err := auto.bridge.Ping(context.Background()); err != nil {
			return err
		}
	}

	st := auto.runner.Once(context.Background(), ctx.now())
	if c.JSON {
		return printJSON(os.Stdout, st)
	}
	printSnapshot(os.Stdout, st)
	return nil
}
