package models

import "time"

// EventKind classifies an automation event log entry.
type EventKind string

const (
	EventToggleIssued  EventKind = "toggle_issued"
	EventVerified      EventKind = "verified"
	EventVerifyFailed  EventKind = "verify_failed"
	EventAdopted       EventKind = "adopted"
	EventReleased      EventKind = "released"
	EventUserTakeover  EventKind = "user_takeover"
	EventEnvironment   EventKind = "environment"
	EventSuspendChange EventKind = "suspend"
	EventDailyReset    EventKind = "daily_reset"
)

// AutomationEvent is one row of the automation history.
type AutomationEvent struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Slot   Slot      `json:"slot"`
	Rule   string    `json:"rule"`
	Kind   EventKind `json:"kind"`
	Target bool      `json:"target"`
	Actual bool      `json:"actual"`
	Detail string    `json:"detail"`
}
