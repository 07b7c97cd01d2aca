package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/julianstephens/envsync/internal/models"
)

type HistoryCmd struct {
	Slot  string `arg:"" optional:"" help:"Only show events for this slot."`
	Limit int    `help:"Maximum number of events." default:"20"`
	JSON  bool   `help:"Output as JSON."`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	var slot models.Slot
	if c.Slot != "" {
		s, err := models.ParseSlot(c.Slot)
		if err != nil {
			return err
		}
		slot = s
	}

	events, err := ctx.Store.RecentEvents(slot, c.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if c.JSON {
		return printJSON(os.Stdout, events)
	}
	if len(events) == 0 {
		fmt.Println("No automation events recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tSLOT\tRULE\tTARGET\tACTUAL\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%v\t%s\n",
			e.At.Local().Format("01-02 15:04:05"), e.Kind, e.Slot, e.Rule, e.Target, e.Actual, e.Detail)
	}
	return w.Flush()
}
