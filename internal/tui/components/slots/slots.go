package slots

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/envsync/internal/models"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(16)

	onStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// Row is one slot line.
type Row struct {
	Slot    models.Slot
	Rule    string
	Active  bool
	Auto    bool
	User    bool
	Pending bool
}

func (r Row) tags() string {
	var tags []string
	if r.Auto {
		tags = append(tags, "auto")
	}
	if r.User {
		tags = append(tags, "user")
	}
	if r.Pending {
		tags = append(tags, "pending")
	}
	if r.Rule != "" {
		tags = append(tags, r.Rule)
	}
	return strings.Join(tags, " · ")
}

type Model struct {
	viewport viewport.Model
	rows     []Row
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "Waiting for the daemon..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetRows(rows []Row) {
	m.rows = rows
	m.Render()
}

// Rows returns the rows currently shown.
func (m Model) Rows() []Row {
	return m.rows
}

func (m *Model) Render() {
	var b strings.Builder
	for _, r := range m.rows {
		state := offStyle.Render("○ off")
		if r.Active {
			state = onStyle.Render("● on ")
		}
		fmt.Fprintf(&b, "%s %s  %s\n", nameStyle.Render(string(r.Slot)), state, tagStyle.Render(r.tags()))
	}
	m.viewport.SetContent(b.String())
}
