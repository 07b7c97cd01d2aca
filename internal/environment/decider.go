package environment

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/envsync/internal/actuator"
	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

// SuspendSource reports whether automatic switching is halted.
type SuspendSource interface {
	Suspended() bool
}

// EventSink persists environment switches.
type EventSink interface {
	AppendEvent(event models.AutomationEvent) error
}

// Decider applies decisions to the host. Like the engine it is driven from a single loop.
type Decider struct {
	act     actuator.Actuator
	suspend SuspendSource
	events  EventSink

	last     models.BaseEnvironment
	hasLast  bool
	lastFull Decision
}

func NewDecider(act actuator.Actuator, suspend SuspendSource, events EventSink) *Decider {
	return &Decider{act: act, suspend: suspend, events: events}
}

// LastApplied returns the most recently applied base environment.
func (d *Decider) LastApplied() (models.BaseEnvironment, bool) {
	return d.last, d.hasLast
}

// LastDecision returns the most recently applied decision including its overlay.
func (d *Decider) LastDecision() (Decision, bool) {
	return d.lastFull, d.hasLast
}

// Apply decides and drives the host. Without force, a base environment that is already
// active is left alone. It reports false when switching is suspended.
func (d *Decider) Apply(now time.Time, sched calendar.SunSchedule, snap *models.WeatherSnapshot, force bool) (Decision, bool) {
	if d.suspend != nil && d.suspend.Suspended() {
		logger.Info("Environment switching suspended, skipping")
		return Decision{}, false
	}

	dec := Decide(now, sched, snap)
	if snap != nil && (force || !d.hasLast) {
		logger.Info("Environment decision", "weather", snap.Text, "code", snap.Code, "decision", dec.String())
	}

	d.applyBase(now, dec.Base, force)
	d.applyOverlay(dec.Overlay)

	d.last = dec.Base
	d.lastFull = dec
	d.hasLast = true
	return dec, true
}

func (d *Decider) applyBase(now time.Time, target models.BaseEnvironment, force bool) {
	targetSlot := target.Slot()
	if !force && actuator.IsActive(d.act, targetSlot) {
		return
	}

	for _, env := range models.BaseEnvironments {
		slot := env.Slot()
		if slot != targetSlot && actuator.IsActive(d.act, slot) {
			d.toggle(slot)
		}
	}
	if !actuator.IsActive(d.act, targetSlot) {
		d.toggle(targetSlot)
	}
	logger.Info("Switching environment", "target", target)
	d.record(now, targetSlot, target.String())
}

func (d *Decider) applyOverlay(target models.Precipitation) {
	want := target.Slot()
	for _, slot := range models.PrecipitationSlots {
		should := slot == want
		if should != actuator.IsActive(d.act, slot) {
			if should {
				logger.Info("Enabling overlay", "slot", slot)
			}
			d.toggle(slot)
		}
	}
}

func (d *Decider) toggle(slot models.Slot) {
	if err := d.act.Toggle(slot); err != nil {
		logger.Warn("Toggle failed", "slot", slot, "error", err)
	}
}

func (d *Decider) record(now time.Time, slot models.Slot, detail string) {
	if d.events == nil {
		return
	}
	event := models.AutomationEvent{
		ID:     uuid.NewString(),
		At:     now,
		Slot:   slot,
		Kind:   models.EventEnvironment,
		Target: true,
		Actual: true,
		Detail: detail,
	}
	if err := d.events.AppendEvent(event); err != nil {
		logger.Warn("Failed to record environment event", "error", err)
	}
}
