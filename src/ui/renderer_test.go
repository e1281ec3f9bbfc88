package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

func TestRenderMenuContainsHeader(t *testing.T) {
	styles := NewStyles()
	menu := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)

	state := State{
		Mode:    ModeMenu,
		Backend: "gemini",
		Menu:    menu,
	}

	output := Render(state, styles)

	if !strings.Contains(output, "Mega Coder") {
		t.Errorf("Expected output to contain the header text")
	}
	if !strings.Contains(output, "gemini") {
		t.Errorf("Expected output to name the active backend")
	}
}

func TestRenderRunningShowsSpinnerText(t *testing.T) {
	styles := NewStyles()
	vp := viewport.New(80, 20)
	sp := spinner.New()

	state := State{
		Mode:         ModeRunning,
		Backend:      "openai",
		Viewport:     vp,
		Spinner:      sp,
		IsThinking:   true,
		ThinkingText: "running attempt 2",
	}

	output := Render(state, styles)

	if !strings.Contains(output, "running attempt 2") {
		t.Errorf("Expected output to contain the thinking text")
	}
}

func TestRenderFooterContainsQuit(t *testing.T) {
	styles := NewStyles()
	ta := textarea.New()
	ta.SetWidth(80)

	state := State{
		Mode:     ModeDescribe,
		Backend:  "gemini",
		TextArea: ta,
	}

	output := Render(state, styles)

	if !strings.Contains(output, "ctrl+c: quit") {
		t.Errorf("Expected footer to mention quit binding")
	}
}
