// Package actuator defines the boundary to the host: reading a slot's live state and
// blindly toggling it. Toggles complete at an unknown later time.
package actuator

import (
	"errors"

	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

// ErrUnknownSlot is returned when the host has no controller registered for a slot
var ErrUnknownSlot = errors.New("slot not registered with host")

// Actuator reads and flips a slot's boolean state. Toggle is fire-and-forget.
type Actuator interface {
	ReadState(slot models.Slot) (bool, error)
	Toggle(slot models.Slot) error
}

// UserToggleSource notifies about toggles a human made directly on the host.
type UserToggleSource interface {
	OnUserToggle(fn func(models.Slot))
}

// IsActive reads a slot's state. Read failures are logged and reported as inactive.
func IsActive(a Actuator, slot models.Slot) bool {
	active, err := a.ReadState(slot)
	if err != nil {
		logger.Warn("Reading slot state failed", "slot", slot, "error", err)
		return false
	}
	return active
}
