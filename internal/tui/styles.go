package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")) // Пурпурный
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")) // Серый
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// renderParagraph рисует абзац в рамке с заголовком.
func renderParagraph(title, body string) string {
	return titleStyle.Render(title) + "\n" + boxStyle.Render(body)
}
