package engine

import (
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/models"
)

// PendingAction is an issued toggle awaiting its delayed state check.
type PendingAction struct {
	Slot     models.Slot `json:"slot"`
	Target   bool        `json:"target"`
	VerifyAt time.Time   `json:"verify_at"`
	Rule     string      `json:"rule"`
}

// Context is the mutable automation state. It is owned by the scheduler loop and
// never touched from another goroutine.
type Context struct {
	AutoManaged    map[models.Slot]bool
	UserOverridden map[models.Slot]bool
	Pending        map[models.Slot]PendingAction
	LastClick      map[models.Slot]time.Time

	Suspended   bool
	SuspendedBy string // rule that set the flag

	Epoch Epoch
}

func NewContext() *Context {
	return &Context{
		AutoManaged:    make(map[models.Slot]bool),
		UserOverridden: make(map[models.Slot]bool),
		Pending:        make(map[models.Slot]PendingAction),
		LastClick:      make(map[models.Slot]time.Time),
	}
}

// ordered returns the members of set in slot order.
func ordered(set map[models.Slot]bool) []models.Slot {
	var out []models.Slot
	for _, s := range models.AllSlots() {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}

// Epoch detects calendar date changes between ticks.
type Epoch struct {
	lastDate string
}

// Check records now's date and reports whether it differs from the previous check.
// The first check only records.
func (e *Epoch) Check(now time.Time) bool {
	today := calendar.DateKey(now)
	if e.lastDate == "" {
		e.lastDate = today
		return false
	}
	if e.lastDate == today {
		return false
	}
	e.lastDate = today
	return true
}

// LastDate returns the date of the most recent check.
func (e *Epoch) LastDate() string {
	return e.lastDate
}
