package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

// EventSink persists automation events.
type EventSink interface {
	AppendEvent(event models.AutomationEvent) error
}

func (e *Engine) record(now time.Time, slot models.Slot, rule string, kind models.EventKind, target, actual bool, detail string) {
	if e.events == nil {
		return
	}
	event := models.AutomationEvent{
		ID:     uuid.NewString(),
		At:     now,
		Slot:   slot,
		Rule:   rule,
		Kind:   kind,
		Target: target,
		Actual: actual,
		Detail: detail,
	}
	if err := e.events.AppendEvent(event); err != nil {
		logger.Warn("Failed to record automation event", "kind", kind, "error", err)
	}
}
