package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

// Mode represents the current UI state
type Mode int

const (
	ModeMenu Mode = iota
	ModeDescribe
	ModeRepo
	ModeRunning
	ModeResult
	ModeScreen
)

// State contains all the data required to render the UI.
// This decouples the renderer from the main application logic.
type State struct {
	Mode         Mode
	Backend      string
	OutputDir    string
	IsThinking   bool
	ThinkingText string
	Output       string

	// Bubble Tea models
	Menu     list.Model
	TextArea textarea.Model
	Viewport viewport.Model
	Spinner  spinner.Model
}
