package tui

import "github.com/charmbracelet/lipgloss"

// Styles used by the chat view.
type Styles struct {
	Prompt   lipgloss.Style
	Question lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Frame    lipgloss.Style
}

// DefaultStyles returns the casegraph palette.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#7AA2F7")
	muted := lipgloss.Color("#565F89")

	return Styles{
		Prompt:   lipgloss.NewStyle().Foreground(primary).Bold(true),
		Question: lipgloss.NewStyle().Foreground(primary),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E")).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
