// Package engine reconciles scenery slots against the rule set through a blind,
// delayed toggle actuator while respecting slots a human has taken over.
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/julianstephens/envsync/internal/actuator"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/rules"
)

// WeatherSource supplies the latest cached snapshot, or nil.
type WeatherSource interface {
	CurrentSnapshot() *models.WeatherSnapshot
}

type Engine struct {
	ctx     *Context
	rules   *rules.Set
	act     actuator.Actuator
	weather WeatherSource
	rand    rules.RandomSource
	events  EventSink

	cooldown    time.Duration
	verifyDelay time.Duration
}

type Option func(*Engine)

// WithRandom replaces the source used for daily rolls.
func WithRandom(r rules.RandomSource) Option {
	return func(e *Engine) { e.rand = r }
}

// WithEvents records every transition to sink.
func WithEvents(sink EventSink) Option {
	return func(e *Engine) { e.events = sink }
}

// WithContext starts the engine from existing state.
func WithContext(c *Context) Option {
	return func(e *Engine) { e.ctx = c }
}

// WithTiming overrides the click cooldown and verify delay.
func WithTiming(cooldown, verifyDelay time.Duration) Option {
	return func(e *Engine) {
		e.cooldown = cooldown
		e.verifyDelay = verifyDelay
	}
}

func New(set *rules.Set, act actuator.Actuator, weather WeatherSource, opts ...Option) *Engine {
	seed := uint64(time.Now().UnixNano())
	e := &Engine{
		ctx:         NewContext(),
		rules:       set,
		act:         act,
		weather:     weather,
		rand:        rand.New(rand.NewPCG(seed, seed>>1)),
		cooldown:    constants.ClickCooldown,
		verifyDelay: constants.VerifyDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Context exposes the engine state.
func (e *Engine) Context() *Context {
	return e.ctx
}

// Rules returns the rule set the engine evaluates.
func (e *Engine) Rules() *rules.Set {
	return e.rules
}

// Suspended reports whether automatic environment switching is halted.
func (e *Engine) Suspended() bool {
	return e.ctx.Suspended
}

// Tick runs one reconciliation pass.
func (e *Engine) Tick(now time.Time) {
	if e.ctx.Epoch.Check(now) {
		e.resetDaily(now)
	}

	// While suspended the scene is frozen. Only in-flight toggles are verified.
	if e.ctx.Suspended {
		e.ProcessPending(now)
		return
	}

	if actuator.IsActive(e.act, rules.HardOverrideSlot) {
		e.releaseAll(now)
		return
	}

	e.ProcessPending(now)
	e.deactivationScan(now)
	e.activationScan(now)
}

// Activate turns a rule's slot on unless a toggle is in flight or the slot is cooling down.
func (e *Engine) Activate(r rules.Rule, now time.Time) {
	e.issue(r, true, now)
}

// Deactivate turns a rule's slot off unless a toggle is in flight or the slot is cooling down.
func (e *Engine) Deactivate(r rules.Rule, now time.Time) {
	e.issue(r, false, now)
}

func (e *Engine) issue(r rules.Rule, target bool, now time.Time) {
	slot := r.Slot
	if _, inFlight := e.ctx.Pending[slot]; inFlight {
		return
	}
	if last, ok := e.ctx.LastClick[slot]; ok && now.Sub(last) < e.cooldown {
		logger.Debug("Slot cooling down", "slot", slot, "rule", r.Name)
		return
	}

	if actuator.IsActive(e.act, slot) == target {
		if target {
			e.ctx.AutoManaged[slot] = true
			logger.Info("Slot already active, adopting", "slot", slot, "rule", r.Name)
			e.record(now, slot, r.Name, models.EventAdopted, target, target, "")
			e.suspendFor(r, now)
		} else {
			delete(e.ctx.AutoManaged, slot)
			logger.Info("Slot already inactive, releasing", "slot", slot, "rule", r.Name)
			e.record(now, slot, r.Name, models.EventReleased, target, target, "")
		}
		return
	}

	if err := e.act.Toggle(slot); err != nil {
		logger.Warn("Toggle failed", "slot", slot, "rule", r.Name, "error", err)
		return
	}
	e.ctx.LastClick[slot] = now
	e.ctx.Pending[slot] = PendingAction{
		Slot:     slot,
		Target:   target,
		VerifyAt: now.Add(e.verifyDelay),
		Rule:     r.Name,
	}
	logger.Info("Toggle issued", "slot", slot, "rule", r.Name, "target", target)
	e.record(now, slot, r.Name, models.EventToggleIssued, target, !target, "")

	if target {
		e.suspendFor(r, now)
	}
}

// ProcessPending verifies every pending action whose delay has elapsed.
func (e *Engine) ProcessPending(now time.Time) {
	for _, slot := range models.AllSlots() {
		action, ok := e.ctx.Pending[slot]
		if !ok || now.Before(action.VerifyAt) {
			continue
		}
		delete(e.ctx.Pending, slot)

		actual := actuator.IsActive(e.act, slot)
		if actual != action.Target {
			logger.Warn("Verification failed", "slot", slot, "rule", action.Rule, "target", action.Target, "actual", actual)
			e.record(now, slot, action.Rule, models.EventVerifyFailed, action.Target, actual, "")
			if action.Target && e.ctx.SuspendedBy == action.Rule {
				e.clearSuspend(now, "activation not confirmed")
			}
			continue
		}

		if action.Target && e.ctx.UserOverridden[slot] {
			logger.Info("Verified slot already owned by user", "slot", slot, "rule", action.Rule)
			e.record(now, slot, action.Rule, models.EventVerified, action.Target, actual, "user owned")
			continue
		}
		if action.Target {
			e.ctx.AutoManaged[slot] = true
		} else {
			delete(e.ctx.AutoManaged, slot)
		}
		logger.Info("Verified", "slot", slot, "rule", action.Rule, "target", action.Target)
		e.record(now, slot, action.Rule, models.EventVerified, action.Target, actual, "")
	}
}

func (e *Engine) deactivationScan(now time.Time) {
	for _, slot := range ordered(e.ctx.AutoManaged) {
		if e.ctx.UserOverridden[slot] {
			delete(e.ctx.AutoManaged, slot)
			continue
		}
		if _, inFlight := e.ctx.Pending[slot]; inFlight {
			continue
		}
		r, ok := e.rules.ForSlot(slot)
		if !ok {
			// rule was disabled while the slot was managed
			e.Deactivate(rules.Rule{Slot: slot}, now)
			continue
		}
		if !e.rules.Evaluate(r, e.evaluation(now)) {
			e.Deactivate(r, now)
		}
	}
}

func (e *Engine) activationScan(now time.Time) {
	for _, r := range e.rules.Rules() {
		slot := r.Slot
		if e.ctx.UserOverridden[slot] || e.ctx.AutoManaged[slot] {
			continue
		}
		if _, inFlight := e.ctx.Pending[slot]; inFlight {
			continue
		}
		if actuator.IsActive(e.act, slot) {
			continue
		}
		if e.rules.Evaluate(r, e.evaluation(now)) {
			e.Activate(r, now)
		}
	}
}

// releaseAll turns off every auto-managed slot.
func (e *Engine) releaseAll(now time.Time) {
	slots := ordered(e.ctx.AutoManaged)
	if len(slots) == 0 {
		return
	}
	logger.Info("Hard override active, releasing managed slots", "override", rules.HardOverrideSlot, "count", len(slots))
	for _, slot := range slots {
		r, ok := e.rules.ForSlot(slot)
		if !ok {
			r = rules.Rule{Slot: slot}
		}
		e.Deactivate(r, now)
	}
}

func (e *Engine) evaluation(now time.Time) rules.Evaluation {
	ev := rules.Evaluation{Now: now, Rand: e.rand}
	if e.weather != nil {
		ev.Weather = e.weather.CurrentSnapshot()
	}
	return ev
}
