package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/envsync/internal/tui"
)

type WatchCmd struct {
	HostFlags `embed:""`
}

func (c *WatchCmd) Run(ctx *Context) error {
	auto, err := ctx.newAutomation(c.HostFlags)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- auto.runner.Run(runCtx) }()
	auto.start(runCtx)

	p := tea.NewProgram(tui.NewModel(auto.runner, auto.host, ctx.Store, auto.rules), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	cancel()
	return <-errCh
}
