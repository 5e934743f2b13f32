package widget

import "github.com/charmbracelet/lipgloss"

var (
	indigo = lipgloss.Color("#4F46E5")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(indigo).
			Padding(0, 1)

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}).
			Background(lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#374151"}).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(indigo).
			Padding(0, 1)

	failStyle = botStyle.Foreground(lipgloss.Color("#F87171"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)
