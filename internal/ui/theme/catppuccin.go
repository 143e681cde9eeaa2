package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Error = lipgloss.NewStyle().Foreground(Red).Bold(true)

	badge      = lipgloss.NewStyle().Foreground(Base).Bold(true).Padding(0, 1)
	FocusBadge = badge.Background(Peach)
	BreakBadge = badge.Background(Green)
	PhaseBadge = badge.Background(Surface1).Foreground(Text)
)

// OutcomeStyle colours a session outcome label.
func OutcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "Focused":
		return lipgloss.NewStyle().Foreground(Green)
	case "Distracted":
		return lipgloss.NewStyle().Foreground(Red)
	}
	return Muted
}

// ScoreColor picks a bar colour for a mood score in [0,1].
func ScoreColor(score float64) lipgloss.Color {
	switch {
	case score > 0.7:
		return Green
	case score >= 0.35:
		return Yellow
	default:
		return Red
	}
}
