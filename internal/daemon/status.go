package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/envsync/internal/engine"
	"github.com/julianstephens/envsync/internal/environment"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

// ErrNotRunning is returned by Status once the loop has exited.
var ErrNotRunning = errors.New("daemon is not running")

// Snapshot is a copy of the daemon state taken on the loop goroutine.
type Snapshot struct {
	At          time.Time               `json:"at"`
	Ready       bool                    `json:"ready"`
	Engine      engine.Status           `json:"engine"`
	Decision    environment.Decision    `json:"-"`
	HasDecision bool                    `json:"has_decision"`
	Weather     *models.WeatherSnapshot `json:"weather,omitempty"`
	Settings    models.Settings         `json:"settings"`
}

// Status asks the running loop for a snapshot.
func (r *Runner) Status(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case r.statusReq <- reply:
	case <-r.done:
		return Snapshot{}, ErrNotRunning
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (r *Runner) status() Snapshot {
	dec, ok := r.decider.LastDecision()
	return Snapshot{
		At:          r.now(),
		Ready:       r.ready,
		Engine:      r.engine.Status(),
		Decision:    dec,
		HasDecision: ok,
		Weather:     r.CurrentSnapshot(),
		Settings:    r.settings,
	}
}

func (r *Runner) logStatus() {
	st := r.status()
	decision := "none"
	if st.HasDecision {
		decision = st.Decision.String()
	}
	weatherText := "none"
	if st.Weather != nil {
		weatherText = st.Weather.String()
	}
	logger.Info("Automation status",
		"auto_managed", st.Engine.AutoManaged,
		"user_overridden", st.Engine.UserOverridden,
		"pending", len(st.Engine.Pending),
		"suspended", st.Engine.Suspended,
		"suspended_by", st.Engine.SuspendedBy,
		"environment", decision,
		"weather", weatherText,
	)
}
