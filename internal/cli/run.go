package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/envsync/internal/daemon"
	"github.com/julianstephens/envsync/internal/logger"
)

type RunCmd struct {
	HostFlags `embed:""`
}

func (c *RunCmd) Run(ctx *Context) error {
	auto, err := ctx.newAutomation(c.HostFlags)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	daemon.WatchSignals(sigCtx, auto.runner)
	auto.start(sigCtx)

	mode := "host bridge"
	if c.Simulate {
		mode = "simulated host"
	}
	fmt.Printf("envsync running against the %s (pid %d). SIGUSR1 reconcile, SIGUSR2 status, SIGHUP weather.\n", mode, os.Getpid())
	logger.Info("Starting daemon", "mode", mode, "rules", len(auto.rules.Rules()))

	return auto.runner.Run(sigCtx)
}
