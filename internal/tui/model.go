// Package tui is the live dashboard behind `envsync watch`.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/envsync/internal/actuator"
	"github.com/julianstephens/envsync/internal/daemon"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/rules"
	"github.com/julianstephens/envsync/internal/tui/components/history"
	"github.com/julianstephens/envsync/internal/tui/components/slots"
)

const (
	refreshInterval = time.Second
	historyLimit    = 100
)

type SessionState int

const (
	StateSlots SessionState = iota
	StateHistory
)

var tabTitles = []string{"Slots", "History"}

// Controller is the part of the daemon the dashboard drives.
type Controller interface {
	Status(ctx context.Context) (daemon.Snapshot, error)
	ForceReconcile()
	ShowStatus()
	ForceWeatherRefresh()
}

// HistorySource supplies recent automation events.
type HistorySource interface {
	RecentEvents(slot models.Slot, limit int) ([]models.AutomationEvent, error)
}

type tickMsg time.Time

type statusMsg struct {
	snap   daemon.Snapshot
	live   map[models.Slot]bool
	events []models.AutomationEvent
	err    error
}

type Model struct {
	ctrl    Controller
	host    actuator.Actuator
	history HistorySource
	set     *rules.Set

	state    SessionState
	keys     KeyMap
	help     help.Model
	slots    slots.Model
	events   history.Model
	snap     daemon.Snapshot
	hasSnap  bool
	err      error
	notice   string
	quitting bool
	width    int
	height   int
}

func NewModel(ctrl Controller, host actuator.Actuator, hist HistorySource, set *rules.Set) Model {
	return Model{
		ctrl:    ctrl,
		host:    host,
		history: hist,
		set:     set,
		state:   StateSlots,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		slots:   slots.New(0, 0),
		events:  history.New(nil, 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh collects daemon state, live slot states and history off the UI goroutine.
func (m Model) refresh() tea.Cmd {
	ctrl, host, hist := m.ctrl, m.host, m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshInterval)
		defer cancel()

		msg := statusMsg{live: map[models.Slot]bool{}}
		msg.snap, msg.err = ctrl.Status(ctx)
		if host != nil {
			for _, slot := range models.AllSlots() {
				msg.live[slot] = actuator.IsActive(host, slot)
			}
		}
		if hist != nil {
			if events, err := hist.RecentEvents("", historyLimit); err == nil {
				msg.events = events
			}
		}
		return msg
	}
}

func (m *Model) applyStatus(msg statusMsg) {
	m.err = msg.err
	if msg.err != nil {
		return
	}
	m.snap = msg.snap
	m.hasSnap = true

	auto := setOf(msg.snap.Engine.AutoManaged)
	user := setOf(msg.snap.Engine.UserOverridden)
	pending := map[models.Slot]bool{}
	for _, p := range msg.snap.Engine.Pending {
		pending[p.Slot] = true
	}

	rows := make([]slots.Row, 0, len(models.AllSlots()))
	for _, slot := range models.AllSlots() {
		row := slots.Row{
			Slot:    slot,
			Active:  msg.live[slot],
			Auto:    auto[slot],
			User:    user[slot],
			Pending: pending[slot],
		}
		if m.set != nil {
			if r, ok := m.set.ForSlot(slot); ok {
				row.Rule = r.Name
			}
		}
		rows = append(rows, row)
	}
	m.slots.SetRows(rows)
	m.events.SetEvents(msg.events)
}

func setOf(slots []models.Slot) map[models.Slot]bool {
	out := make(map[models.Slot]bool, len(slots))
	for _, s := range slots {
		out[s] = true
	}
	return out
}
