package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const Logo = `
███╗   ███╗███████╗ ██████╗  █████╗      ██████╗ ██████╗ ██████╗ ███████╗██████╗
████╗ ████║██╔════╝██╔════╝ ██╔══██╗    ██╔════╝██╔═══██╗██╔══██╗██╔════╝██╔══██╗
██╔████╔██║█████╗  ██║  ███╗███████║    ██║     ██║   ██║██║  ██║█████╗  ██████╔╝
██║╚██╔╝██║██╔══╝  ██║   ██║██╔══██║    ██║     ██║   ██║██║  ██║██╔══╝  ██╔══██╗
██║ ╚═╝ ██║███████╗╚██████╔╝██║  ██║    ╚██████╗╚██████╔╝██████╔╝███████╗██║  ██║
╚═╝     ╚═╝╚══════╝ ╚═════╝ ╚═╝  ╚═╝     ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝
                  Y O U R   A I   C O D I N G   B U D D Y
`

// Render generates the full UI string based on the provided state.
func Render(s State, styles Styles) string {
	header := renderHeader(s, styles)
	body := renderBody(s, styles)
	footer := renderFooter(s, styles)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func renderHeader(s State, styles Styles) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFB86C")).Bold(true).
		Background(lipgloss.Color("#000000")).UnsetBackground()
	subtitle := styles.Header.Render(fmt.Sprintf("Mega Coder · backend: %s", s.Backend))

	return lipgloss.JoinVertical(lipgloss.Left, logoStyle.Render(Logo), subtitle)
}

func renderFooter(s State, styles Styles) string {
	help := "ctrl+c: quit"
	switch s.Mode {
	case ModeMenu:
		help += " | enter: choose | ↑/↓: move"
	case ModeDescribe, ModeRepo:
		help += " | enter: go | esc: back"
	case ModeRunning:
		help += " | esc: cancel"
	case ModeResult, ModeScreen:
		help += " | esc: back to menu"
	}
	return styles.Footer.Render(help)
}

func renderBody(s State, styles Styles) string {
	switch s.Mode {
	case ModeMenu:
		return styles.List.Render(s.Menu.View())
	case ModeDescribe:
		return renderPromptInput(s, styles,
			"Describe the python program you want me to develop:")
	case ModeRepo:
		return renderPromptInput(s, styles,
			"Repository URL on the first line, then your question:")
	case ModeRunning:
		return renderRunning(s, styles)
	case ModeResult:
		return renderResult(s, styles)
	case ModeScreen:
		return renderScreen(s, styles)
	default:
		return ""
	}
}

func renderPromptInput(s State, styles Styles, title string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Accent.Render(title),
		"",
		s.TextArea.View(),
	)
}

func renderRunning(s State, styles Styles) string {
	thinking := ""
	if s.IsThinking {
		thinking = styles.Thinking.Render(fmt.Sprintf("%s %s", s.Spinner.View(), s.ThinkingText))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Viewport.View(),
		thinking,
	)
}

func renderResult(s State, styles Styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Subtitle.Render(fmt.Sprintf("Artifacts: %s", s.OutputDir)),
		s.Viewport.View(),
	)
}

func renderScreen(s State, styles Styles) string {
	status := styles.Subtle.Render("Watching your screen for coding tips...")
	if s.IsThinking {
		status = styles.Thinking.Render(fmt.Sprintf("%s %s", s.Spinner.View(), s.ThinkingText))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		s.Viewport.View(),
	)
}
