package daemon

import "context"

// WatchSignals is a no-op on Windows; use the watch dashboard keys instead.
func WatchSignals(ctx context.Context, r *Runner) {}
