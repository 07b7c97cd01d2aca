package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateSlots:
		content = docStyle.Render(m.slots.View())
	case StateHistory:
		content = docStyle.Render(m.events.View())
	}

	parts := []string{m.viewHeader(), m.viewTabs(), content}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	} else if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	if !m.hasSnap {
		return headerStyle.Render("envsync")
	}

	env := "undecided"
	if m.snap.HasDecision {
		env = m.snap.Decision.String()
	}
	weather := "no weather"
	if m.snap.Weather != nil {
		weather = m.snap.Weather.String()
	}
	line := fmt.Sprintf("envsync  %s  |  %s  |  sun %s-%s", env, weather, m.snap.Settings.Sunrise, m.snap.Settings.Sunset)
	if !m.snap.Ready {
		line += "  |  waiting for host"
	}
	header := headerStyle.Render(line)
	if m.snap.Engine.Suspended {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, suspendedStyle.Render("suspended by "+m.snap.Engine.SuspendedBy))
	}
	return header
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
