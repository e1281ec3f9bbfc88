package src

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"

	"github.com/mega-coder/mega-coder/src/ui"
)

type menuItem struct{ name, desc string }

func (m menuItem) Title() string       { return m.name }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.name }

func menuItems() []list.Item {
	return []list.Item{
		menuItem{"develop", "Develop a python program from a description"},
		menuItem{"repo", "Fix or explain something in a public repository"},
		menuItem{"screen", "Watch my screen and give live coding tips"},
		menuItem{"exit", "Quit Mega Coder"},
	}
}

// pipelineProgressMsg streams one progress line from a running pipeline.
type pipelineProgressMsg struct {
	line string
}

// pipelineDoneMsg is sent when a pipeline invocation finishes.
type pipelineDoneMsg struct {
	res      *PipelineResult
	codePath string
	docPath  string
	err      error
}

type repoDoneMsg struct {
	text string
	err  error
}

type screenTickMsg struct{}

type screenTipMsg struct {
	tip string
	err error
}

type model struct {
	ctx    context.Context
	cfg    *Config
	client ModelClient
	utcp   utcp.UtcpClientInterface
	tipper *ScreenTipper

	mode       ui.Mode
	isThinking bool
	thinking   string
	output     string
	width      int
	height     int

	// runCancel aborts the in-flight pipeline or screen capture; set only
	// while a background operation is running.
	runCancel context.CancelFunc
	screenCtx context.Context

	// tipInFlight suppresses new captures while one is still running, so
	// a slow capture never overlaps the next poll tick.
	tipInFlight bool

	menu     list.Model
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	style    ui.Styles

	Program *tea.Program
}

func NewModel(ctx context.Context, cfg *Config, client ModelClient, u utcp.UtcpClientInterface) *model {
	menu := list.New(menuItems(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "What would you like me to do today?"
	menu.SetShowHelp(false)
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	ta := textarea.New()
	ta.Placeholder = "Describe the program you want..."
	ta.SetHeight(5)

	vp := viewport.New(0, 0)
	vp.SetContent("Welcome to Mega Coder! Pick an option to get started.")

	st := ui.NewStyles()

	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = st.Thinking

	return &model{
		ctx:      ctx,
		cfg:      cfg,
		client:   client,
		utcp:     u,
		tipper:   NewScreenTipper(cfg, client, &UTCPScreenReader{Client: u}),
		mode:     ui.ModeMenu,
		menu:     menu,
		textarea: ta,
		viewport: vp,
		spinner:  s,
		style:    st,
	}
}

func (m *model) Init() tea.Cmd { return nil }

// renderOutput pushes the accumulated output into the viewport. Output is
// only ever touched on the event loop; background work reports through
// Program.Send.
func (m *model) renderOutput(scrollToBottom bool) {
	m.viewport.SetContent(m.output)
	if scrollToBottom {
		m.viewport.GotoBottom()
	}
}

func (m *model) uiState() ui.State {
	return ui.State{
		Mode:         m.mode,
		Backend:      m.cfg.Backend,
		OutputDir:    m.cfg.OutputDir,
		IsThinking:   m.isThinking,
		ThinkingText: m.thinking,
		Output:       m.output,
		Menu:         m.menu,
		TextArea:     m.textarea,
		Viewport:     m.viewport,
		Spinner:      m.spinner,
	}
}

func (m *model) View() string {
	return ui.Render(m.uiState(), m.style)
}
