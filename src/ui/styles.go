package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Header   lipgloss.Style
	Subtitle lipgloss.Style
	List     lipgloss.Style
	Textarea lipgloss.Style
	Footer   lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warn     lipgloss.Style
	Thinking lipgloss.Style
	Subtle   lipgloss.Style
	Center   lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555")).
			Faint(true).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1),

		List: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFB86C")),

		Textarea: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFB86C")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C5C")).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")).
			Bold(true),

		Warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C")),

		Thinking: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),

		Center: lipgloss.NewStyle().
			Align(lipgloss.Center),
	}
}
