//go:build !windows

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/envsync/internal/logger"
)

// WatchSignals maps SIGUSR1 to ForceReconcile, SIGUSR2 to ShowStatus and SIGHUP to
// ForceWeatherRefresh until ctx is done.
func WatchSignals(ctx context.Context, r *Runner) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP)

	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-ch:
				logger.Info("Received signal", "signal", sig.String())
				switch sig {
				case syscall.SIGUSR1:
					r.ForceReconcile()
				case syscall.SIGUSR2:
					r.ShowStatus()
				case syscall.SIGHUP:
					r.ForceWeatherRefresh()
				}
			}
		}
	}()
}
