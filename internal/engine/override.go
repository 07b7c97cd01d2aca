package engine

import (
	"time"

	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/rules"
)

// HandleUserToggle records that a human flipped slot. The slot leaves automatic
// management for the rest of the process lifetime.
func (e *Engine) HandleUserToggle(slot models.Slot, now time.Time) {
	if !e.ctx.UserOverridden[slot] {
		logger.Info("User took over slot", "slot", slot)
	}
	e.ctx.UserOverridden[slot] = true
	delete(e.ctx.AutoManaged, slot)
	e.record(now, slot, "", models.EventUserTakeover, false, false, "")

	if e.ctx.Suspended && e.ctx.SuspendedBy != "" {
		if r, ok := e.rules.ForSlot(slot); ok && r.Name == e.ctx.SuspendedBy {
			e.clearSuspend(now, "user toggled "+string(slot))
		}
	}
}

func (e *Engine) suspendFor(r rules.Rule, now time.Time) {
	if !r.Suspends || e.ctx.Suspended {
		return
	}
	e.ctx.Suspended = true
	e.ctx.SuspendedBy = r.Name
	logger.Warn("Environment switching suspended", "rule", r.Name, "slot", r.Slot)
	e.record(now, r.Slot, r.Name, models.EventSuspendChange, true, true, "suspended")
}

func (e *Engine) clearSuspend(now time.Time, reason string) {
	if !e.ctx.Suspended {
		return
	}
	by := e.ctx.SuspendedBy
	e.ctx.Suspended = false
	e.ctx.SuspendedBy = ""
	logger.Info("Environment switching resumed", "rule", by, "reason", reason)
	e.record(now, "", by, models.EventSuspendChange, false, false, reason)
}

// resetDaily clears per-rule memory and any suspend set by a probabilistic rule.
func (e *Engine) resetDaily(now time.Time) {
	e.rules.ResetDaily()
	logger.Info("Daily reset", "date", e.ctx.Epoch.LastDate())
	e.record(now, "", "", models.EventDailyReset, false, false, e.ctx.Epoch.LastDate())
	if e.ctx.SuspendedBy != "" {
		e.clearSuspend(now, "new day")
	}
}
