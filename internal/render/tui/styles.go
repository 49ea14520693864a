package tui

import "github.com/charmbracelet/lipgloss"

var (
	panelBorder   = lipgloss.Color("#2D6A80")
	accentPrimary = lipgloss.Color("#50E3C2")
	mutedText     = lipgloss.Color("#8CA1AE")
	callColor     = lipgloss.Color("#4CAF50")
	putColor      = lipgloss.Color("#F44336")
	holdColor     = lipgloss.Color("#FFC107")
	warningText   = lipgloss.Color("#FF6B6B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentPrimary).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(accentPrimary).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedText)

	degradedStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Reverse(true)

	errorNoteStyle = lipgloss.NewStyle().
			Foreground(warningText)

	infoNoteStyle = lipgloss.NewStyle().
			Foreground(accentPrimary)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedText)
)

func directionStyle(dir string) lipgloss.Style {
	switch dir {
	case "CALL":
		return lipgloss.NewStyle().Foreground(callColor).Bold(true)
	case "PUT":
		return lipgloss.NewStyle().Foreground(putColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(holdColor).Bold(true)
	}
}
