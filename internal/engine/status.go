package engine

import "github.com/julianstephens/envsync/internal/models"

// Status is a snapshot of the automation state for display.
type Status struct {
	AutoManaged     []models.Slot   `json:"auto_managed"`
	UserOverridden  []models.Slot   `json:"user_overridden"`
	Pending         []PendingAction `json:"pending"`
	Suspended       bool            `json:"suspended"`
	SuspendedBy     string          `json:"suspended_by,omitempty"`
	LastCheckedDate string          `json:"last_checked_date"`
}

func (e *Engine) Status() Status {
	st := Status{
		AutoManaged:     ordered(e.ctx.AutoManaged),
		UserOverridden:  ordered(e.ctx.UserOverridden),
		Suspended:       e.ctx.Suspended,
		SuspendedBy:     e.ctx.SuspendedBy,
		LastCheckedDate: e.ctx.Epoch.LastDate(),
	}
	for _, slot := range models.AllSlots() {
		if p, ok := e.ctx.Pending[slot]; ok {
			st.Pending = append(st.Pending, p)
		}
	}
	return st
}
