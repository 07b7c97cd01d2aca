package actuator

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/envsync/internal/models"
)

type flip struct {
	slot models.Slot
	at   time.Time
}

// Memory is an in-process host. Toggles land after a configurable latency, individual
// toggles can be dropped, and user toggles can be injected.
type Memory struct {
	mu       sync.Mutex
	now      func() time.Time
	latency  time.Duration
	states   map[models.Slot]bool
	known    map[models.Slot]bool
	inflight []flip
	ignore   map[models.Slot]int
	readErr  map[models.Slot]error
	toggles  map[models.Slot]int
	onUser   []func(models.Slot)
}

// MemoryOption configures a Memory host.
type MemoryOption func(*Memory)

// WithLatency delays the visible effect of every toggle.
func WithLatency(d time.Duration) MemoryOption {
	return func(m *Memory) { m.latency = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithSlots restricts the registered slots; toggling any other slot fails.
func WithSlots(slots ...models.Slot) MemoryOption {
	return func(m *Memory) {
		m.known = make(map[models.Slot]bool, len(slots))
		for _, s := range slots {
			m.known[s] = true
		}
	}
}

// NewMemory creates a host with every known slot registered and inactive.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		now:     time.Now,
		states:  make(map[models.Slot]bool),
		known:   make(map[models.Slot]bool),
		ignore:  make(map[models.Slot]int),
		readErr: make(map[models.Slot]error),
		toggles: make(map[models.Slot]int),
	}
	for _, s := range models.AllSlots() {
		m.known[s] = true
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ReadState implements Actuator.
func (m *Memory) ReadState(slot models.Slot) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settle()
	if err := m.readErr[slot]; err != nil {
		return false, err
	}
	if !m.known[slot] {
		return false, fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	return m.states[slot], nil
}

// Toggle implements Actuator.
func (m *Memory) Toggle(slot models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known[slot] {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	m.toggles[slot]++
	if m.ignore[slot] > 0 {
		m.ignore[slot]--
		return nil
	}
	if m.latency <= 0 {
		m.states[slot] = !m.states[slot]
		return nil
	}
	m.inflight = append(m.inflight, flip{slot: slot, at: m.now().Add(m.latency)})
	return nil
}

// OnUserToggle implements UserToggleSource.
func (m *Memory) OnUserToggle(fn func(models.Slot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUser = append(m.onUser, fn)
}

// UserToggle simulates a human flipping slot on the host.
func (m *Memory) UserToggle(slot models.Slot) {
	m.mu.Lock()
	m.settle()
	m.states[slot] = !m.states[slot]
	handlers := append([]func(models.Slot){}, m.onUser...)
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(slot)
	}
}

// Set forces a slot's state without counting a toggle.
func (m *Memory) Set(slot models.Slot, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[slot] = active
}

// IgnoreNext drops the next n toggles of slot.
func (m *Memory) IgnoreNext(slot models.Slot, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignore[slot] += n
}

// FailReads makes ReadState return err for slot. A nil err clears it.
func (m *Memory) FailReads(slot models.Slot, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readErr, slot)
		return
	}
	m.readErr[slot] = err
}

// Toggles returns how many toggles slot received.
func (m *Memory) Toggles(slot models.Slot) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toggles[slot]
}

// TotalToggles returns the toggle count across all slots.
func (m *Memory) TotalToggles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.toggles {
		total += n
	}
	return total
}

// Active returns the currently active slots.
func (m *Memory) Active() []models.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settle()
	var out []models.Slot
	for _, s := range models.AllSlots() {
		if m.states[s] {
			out = append(out, s)
		}
	}
	return out
}

// settle applies in-flight toggles that are due. Callers hold mu.
func (m *Memory) settle() {
	if len(m.inflight) == 0 {
		return
	}
	now := m.now()
	remaining := m.inflight[:0]
	for _, f := range m.inflight {
		if !now.Before(f.at) {
			m.states[f.slot] = !m.states[f.slot]
			continue
		}
		remaining = append(remaining, f)
	}
	m.inflight = remaining
}
