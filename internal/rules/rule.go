// Package rules holds the ordered scenery rule set and the per-rule memory that
// probabilistic and time-boxed conditions keep between ticks.
package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/models"
)

var (
	ErrDuplicateRule = errors.New("rule already registered")
	ErrUnknownRule   = errors.New("unknown rule")
)

// RandomSource yields uniformly distributed values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// Evaluation is the read-only input a condition sees on one tick.
type Evaluation struct {
	Now     time.Time
	Weather *models.WeatherSnapshot
	Rand    RandomSource

	odds map[string]float64
}

// Chance returns the configured probability for key.
func (ev Evaluation) Chance(key string) float64 {
	return ev.odds[key]
}

func (ev Evaluation) roll() float64 {
	if ev.Rand == nil {
		return 1
	}
	return ev.Rand.Float64()
}

// Memory is the private state a rule keeps until the next daily reset.
type Memory struct {
	Rolled    bool      // today's roll has happened
	Triggered bool      // today's roll succeeded
	StartedAt time.Time // when the rule first held today
}

// Condition decides whether a rule holds. It may only mutate its own memory.
type Condition func(ev Evaluation, mem *Memory) bool

// Rule binds a named condition to the slot it controls.
type Rule struct {
	Name      string
	Slot      models.Slot
	Condition Condition
	// Suspends marks a rule whose activation halts automatic environment switching.
	Suspends bool
}

// Set is an ordered collection of rules. Registration order is activation order.
type Set struct {
	rules    []Rule
	memory   map[string]*Memory
	odds     map[string]float64
	disabled map[string]bool
}

func NewSet() *Set {
	return &Set{
		memory:   make(map[string]*Memory),
		odds:     make(map[string]float64),
		disabled: make(map[string]bool),
	}
}

// Register appends a rule. Names must be unique.
func (s *Set) Register(r Rule) error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if !r.Slot.IsKnown() {
		return fmt.Errorf("rule %s: unknown slot %q", r.Name, r.Slot)
	}
	if r.Condition == nil {
		return fmt.Errorf("rule %s: condition is required", r.Name)
	}
	if _, ok := s.memory[r.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, r.Name)
	}
	s.rules = append(s.rules, r)
	s.memory[r.Name] = &Memory{}
	return nil
}

// Rules returns the enabled rules in registration order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if !s.disabled[r.Name] {
			out = append(out, r)
		}
	}
	return out
}

// ForSlot returns the first enabled rule registered for slot.
func (s *Set) ForSlot(slot models.Slot) (Rule, bool) {
	for _, r := range s.rules {
		if r.Slot == slot && !s.disabled[r.Name] {
			return r, true
		}
	}
	return Rule{}, false
}

// Has reports whether a rule with name is registered.
func (s *Set) Has(name string) bool {
	_, ok := s.memory[name]
	return ok
}

// Disable removes a rule from evaluation without forgetting its registration.
func (s *Set) Disable(name string) error {
	if !s.Has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	s.disabled[name] = true
	return nil
}

// SetOdds overrides the probability stored under key.
func (s *Set) SetOdds(key string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("probability for %s must be between 0 and 1, got %v", key, p)
	}
	s.odds[key] = p
	return nil
}

// Odds returns the probability stored under key.
func (s *Set) Odds(key string) float64 {
	return s.odds[key]
}

// Memory returns the private memory of the named rule, or nil.
func (s *Set) Memory(name string) *Memory {
	return s.memory[name]
}

// ResetDaily clears every rule's memory.
func (s *Set) ResetDaily() {
	for _, mem := range s.memory {
		*mem = Memory{}
	}
}

// Evaluate runs a rule's condition. A panicking condition is logged and treated as false.
func (s *Set) Evaluate(r Rule, ev Evaluation) (held bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Rule condition panicked", "rule", r.Name, "panic", rec)
			held = false
		}
	}()

	mem := s.memory[r.Name]
	if mem == nil {
		mem = &Memory{}
	}
	ev.odds = s.odds
	return r.Condition(ev, mem)
}

// rollDaily rolls once per day and remembers the outcome.
func rollDaily(ev Evaluation, mem *Memory, p float64) bool {
	if !mem.Rolled {
		mem.Rolled = true
		mem.Triggered = ev.roll() < p
		if mem.Triggered {
			mem.StartedAt = ev.Now
		}
	}
	return mem.Triggered
}
