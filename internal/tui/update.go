package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.slots.SetSize(msg.Width-4, msg.Height-8)
		m.events.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())

	case statusMsg:
		m.applyStatus(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Weather):
			m.ctrl.ForceWeatherRefresh()
			m.notice = "Weather refresh requested"
			return m, m.refresh()
		case key.Matches(msg, m.keys.Status):
			m.ctrl.ShowStatus()
			m.notice = "Status written to the log"
			return m, nil
		case key.Matches(msg, m.keys.Reconcile):
			m.ctrl.ForceReconcile()
			m.notice = "Reconcile requested"
			return m, m.refresh()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateSlots:
		m.slots, cmd = m.slots.Update(msg)
	case StateHistory:
		m.events, cmd = m.events.Update(msg)
	}
	return m, cmd
}
