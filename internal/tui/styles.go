package tui

import "github.com/charmbracelet/lipgloss"

// Row statuses used by the batch view.
const (
	StatusPending   = "pending"
	StatusCompiling = "compiling"
	StatusCompiled  = "compiled"
	StatusSkipped   = "skipped"
	StatusError     = "error"
)

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// TitleStyle styles the line above the table.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// SummaryStyle styles the counts line under a finished table.
	SummaryStyle = lipgloss.NewStyle().Faint(true)

	statusStyles = map[string]lipgloss.Style{
		StatusCompiled:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		StatusCompiling: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		StatusSkipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		StatusError:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		StatusPending:   lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
