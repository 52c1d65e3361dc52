package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin mocha.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
)

var (
	Title   = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Chapter = lipgloss.NewStyle().Foreground(Lavender).Italic(true)
	Muted   = lipgloss.NewStyle().Foreground(Subtext0)
	Hot     = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Live    = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Failure = lipgloss.NewStyle().Foreground(Red)

	Bar = lipgloss.NewStyle().Background(Mantle)

	Page = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 1)

	Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Peach).
		Background(Mantle).
		Foreground(Text).
		Padding(0, 1)
)
