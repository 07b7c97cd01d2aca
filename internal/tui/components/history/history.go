package history

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/envsync/internal/models"
)

type Item struct {
	Event models.AutomationEvent
}

func (i Item) Title() string {
	if i.Event.Slot == "" {
		return string(i.Event.Kind)
	}
	return fmt.Sprintf("%s %s", i.Event.Kind, i.Event.Slot)
}

func (i Item) Description() string {
	desc := i.Event.At.Local().Format("15:04:05")
	if i.Event.Rule != "" {
		desc += " | " + i.Event.Rule
	}
	if i.Event.Detail != "" {
		desc += " | " + i.Event.Detail
	}
	return desc
}

func (i Item) FilterValue() string { return string(i.Event.Slot) + " " + i.Event.Rule }

type Model struct {
	list list.Model
}

func New(events []models.AutomationEvent, width, height int) Model {
	l := list.New(toItems(events), list.NewDefaultDelegate(), width, height)
	l.Title = "History"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	return Model{list: l}
}

func toItems(events []models.AutomationEvent) []list.Item {
	items := make([]list.Item, len(events))
	for i, e := range events {
		items[i] = Item{Event: e}
	}
	return items
}

func (m *Model) SetEvents(events []models.AutomationEvent) {
	m.list.SetItems(toItems(events))
}

// Len returns the number of events shown.
func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No automation events yet."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
