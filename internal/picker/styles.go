package picker

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan  = lipgloss.Color("#00FFFF")
	colorGreen = lipgloss.Color("#00FF00")
	colorGray  = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	itemStyle = lipgloss.NewStyle()

	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)
