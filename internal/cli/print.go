package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/envsync/internal/daemon"
	"github.com/julianstephens/envsync/internal/models"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func printField(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value)))
}

func slotList(slots []models.Slot) string {
	if len(slots) == 0 {
		return "-"
	}
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printSnapshot renders a daemon snapshot for humans.
func printSnapshot(w io.Writer, st daemon.Snapshot) {
	env := "undecided"
	if st.HasDecision {
		env = st.Decision.String()
	}
	weatherText := "none"
	if st.Weather != nil {
		weatherText = st.Weather.String()
	}

	printField(w, "Time", st.At.Format("2006-01-02 15:04:05"))
	printField(w, "Environment", env)
	printField(w, "Weather", weatherText)
	printField(w, "Sun", st.Settings.Sunrise+" - "+st.Settings.Sunset)
	printField(w, "Automation", st.Settings.AutomationEnabled)
	printField(w, "Auto-managed", slotList(st.Engine.AutoManaged))
	printField(w, "User-overridden", slotList(st.Engine.UserOverridden))

	var pending []models.Slot
	for _, p := range st.Engine.Pending {
		pending = append(pending, p.Slot)
	}
	printField(w, "Pending", slotList(pending))
	if st.Engine.Suspended {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Suspended"), warnStyle.Render("by "+st.Engine.SuspendedBy))
	}
}
