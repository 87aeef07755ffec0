package internal

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/analytics"
)

// Theme holds the styles of text output. Styles are bound to a renderer for
// the output writer, so piping to a file or buffer produces plain text.
type Theme struct {
	Title   lipgloss.Style
	Answer  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Danger  lipgloss.Style
	Header  lipgloss.Style

	RiskCritical lipgloss.Style
	RiskHigh     lipgloss.Style
	RiskMedium   lipgloss.Style
	RiskLow      lipgloss.Style
}

// NewTheme returns the casegraph theme for w.
func NewTheme(w io.Writer) *Theme {
	r := lipgloss.NewRenderer(w)

	primary := lipgloss.Color("#7AA2F7")
	muted := lipgloss.Color("#565F89")

	return &Theme{
		Title:   r.NewStyle().Foreground(primary).Bold(true),
		Answer:  r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1),
		Muted:   r.NewStyle().Foreground(muted),
		Success: r.NewStyle().Foreground(lipgloss.Color("#9ECE6A")),
		Danger:  r.NewStyle().Foreground(lipgloss.Color("#F7768E")).Bold(true),
		Header:  r.NewStyle().Bold(true),

		RiskCritical: r.NewStyle().Foreground(lipgloss.Color("#F7768E")).Bold(true),
		RiskHigh:     r.NewStyle().Foreground(lipgloss.Color("#FF9E64")),
		RiskMedium:   r.NewStyle().Foreground(lipgloss.Color("#E0AF68")),
		RiskLow:      r.NewStyle().Foreground(muted),
	}
}

// RiskBand styles a risk band label.
func (t *Theme) RiskBand(band string) string {
	switch band {
	case analytics.RiskCritical:
		return t.RiskCritical.Render(band)
	case analytics.RiskHigh:
		return t.RiskHigh.Render(band)
	case analytics.RiskMedium:
		return t.RiskMedium.Render(band)
	default:
		return t.RiskLow.Render(band)
	}
}
