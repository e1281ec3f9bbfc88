package src

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mega-coder/mega-coder/src/ui"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		headerHeight := lipgloss.Height(ui.Logo) + 1 // +1 for the subtitle line
		m.menu.SetSize(m.width-4, m.height-headerHeight-4)
		m.textarea.SetWidth(m.width - 4)
		m.viewport.Width = m.width - 4
		m.viewport.Height = m.height - headerHeight - 6
		return m, nil

	case spinner.TickMsg:
		if !m.isThinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pipelineProgressMsg:
		m.output += msg.line + "\n"
		m.renderOutput(true)
		return m, nil

	case pipelineDoneMsg:
		if errors.Is(msg.err, context.Canceled) {
			// The esc handler already reported the cancellation.
			return m, nil
		}
		m.finishRun()
		m.mode = ui.ModeResult
		if msg.err != nil {
			m.output += m.style.Error.Render(fmt.Sprintf("❌ %v", msg.err)) + "\n"
		}
		if msg.res != nil {
			m.output += renderSummary(msg.res, msg.codePath, msg.docPath, m.style)
		}
		m.renderOutput(true)
		return m, nil

	case repoDoneMsg:
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.finishRun()
		m.mode = ui.ModeResult
		if msg.err != nil {
			m.output += m.style.Error.Render(fmt.Sprintf("❌ %v", msg.err)) + "\n"
		} else {
			m.output += msg.text + "\n"
		}
		m.renderOutput(true)
		return m, nil

	case screenTickMsg:
		if m.mode != ui.ModeScreen {
			return m, nil
		}
		if m.tipInFlight {
			// Previous capture still running; just reschedule.
			return m, m.scheduleScreenTick()
		}
		m.tipInFlight = true
		return m, tea.Batch(m.captureTipCmd(), m.scheduleScreenTick())

	case screenTipMsg:
		m.tipInFlight = false
		if m.mode != ui.ModeScreen {
			return m, nil
		}
		if msg.err != nil {
			m.output += m.style.Warn.Render(fmt.Sprintf("⚠️  %v", msg.err)) + "\n"
		} else if msg.tip != "" {
			m.output += m.style.Accent.Render("💡 "+time.Now().Format("15:04:05")) + "\n" + msg.tip + "\n\n"
		}
		m.renderOutput(true)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {

		case "ctrl+c":
			m.finishRun()
			return m, tea.Quit

		case "esc":
			switch m.mode {
			case ui.ModeDescribe, ui.ModeRepo, ui.ModeResult:
				m.backToMenu()
				return m, nil
			case ui.ModeRunning:
				m.finishRun()
				m.output += m.style.Warn.Render("⚠️  Cancelled.") + "\n"
				m.mode = ui.ModeResult
				m.renderOutput(true)
				return m, nil
			case ui.ModeScreen:
				m.finishRun()
				m.backToMenu()
				return m, nil
			}

		case "enter":
			switch m.mode {
			case ui.ModeMenu:
				return m.handleMenuChoice()
			case ui.ModeDescribe:
				request := strings.TrimSpace(m.textarea.Value())
				if request == "" {
					return m, nil
				}
				return m.startPipeline(request)
			case ui.ModeRepo:
				url, question, ok := splitRepoInput(m.textarea.Value())
				if !ok {
					return m, nil
				}
				return m.startRepoQuestion(url, question)
			}
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case ui.ModeMenu:
		m.menu, cmd = m.menu.Update(msg)
	case ui.ModeDescribe, ui.ModeRepo:
		m.textarea, cmd = m.textarea.Update(msg)
	case ui.ModeRunning, ui.ModeResult, ui.ModeScreen:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) handleMenuChoice() (tea.Model, tea.Cmd) {
	item, ok := m.menu.SelectedItem().(menuItem)
	if !ok {
		return m, nil
	}
	switch item.name {
	case "develop":
		m.mode = ui.ModeDescribe
		m.textarea.Reset()
		m.textarea.Placeholder = "Describe the program you want..."
		m.textarea.Focus()
		return m, nil
	case "repo":
		m.mode = ui.ModeRepo
		m.textarea.Reset()
		m.textarea.Placeholder = "https://github.com/owner/repo\nWhy does the build fail on..."
		m.textarea.Focus()
		return m, nil
	case "screen":
		m.mode = ui.ModeScreen
		m.output = ""
		m.renderOutput(false)
		runCtx, cancel := context.WithCancel(m.ctx)
		m.runCancel = cancel
		m.screenCtx = runCtx
		m.tipInFlight = true
		return m, tea.Batch(m.captureTipCmd(), m.scheduleScreenTick())
	case "exit":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) startPipeline(request string) (tea.Model, tea.Cmd) {
	m.mode = ui.ModeRunning
	m.isThinking = true
	m.thinking = "Developing your program..."
	m.output = ""
	m.renderOutput(false)

	runCtx, cancel := context.WithCancel(m.ctx)
	m.runCancel = cancel

	pipe := NewPipeline(m.cfg, m.client)
	pipe.Report = func(line string) {
		m.Program.Send(pipelineProgressMsg{line: line})
	}

	go func() {
		res, runErr := pipe.Run(runCtx, request)
		done := pipelineDoneMsg{res: res, err: runErr}
		if res != nil && res.Candidate != "" && !errors.Is(runErr, context.Canceled) {
			codePath, docPath, err := WriteArtifacts(m.cfg, res)
			if err != nil && runErr == nil {
				done.err = err
			}
			done.codePath = codePath
			done.docPath = docPath
		}
		m.Program.Send(done)
	}()

	return m, m.spinner.Tick
}

func (m *model) startRepoQuestion(url, question string) (tea.Model, tea.Cmd) {
	m.mode = ui.ModeRunning
	m.isThinking = true
	m.thinking = "Reading the repository..."
	m.output = ""
	m.renderOutput(false)

	runCtx, cancel := context.WithCancel(m.ctx)
	m.runCancel = cancel

	ing := &UTCPIngestor{Client: m.utcp}
	go func() {
		answer, err := AskAboutRepo(runCtx, m.cfg, m.client, ing, url, question)
		m.Program.Send(repoDoneMsg{text: answer, err: err})
	}()

	return m, m.spinner.Tick
}

func (m *model) captureTipCmd() tea.Cmd {
	ctx := m.screenCtx
	if ctx == nil {
		ctx = m.ctx
	}
	return func() tea.Msg {
		tip, err := m.tipper.Tip(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return screenTipMsg{tip: tip, err: err}
	}
}

func (m *model) scheduleScreenTick() tea.Cmd {
	return tea.Tick(m.cfg.ScreenInterval, func(time.Time) tea.Msg {
		return screenTickMsg{}
	})
}

func (m *model) backToMenu() {
	m.mode = ui.ModeMenu
	m.isThinking = false
	m.textarea.Blur()
}

// finishRun tears down the in-flight operation, if any.
func (m *model) finishRun() {
	if m.runCancel != nil {
		m.runCancel()
		m.runCancel = nil
	}
	m.screenCtx = nil
	m.tipInFlight = false
	m.isThinking = false
}

// splitRepoInput expects the repository URL on the first line and the
// question on the remaining lines.
func splitRepoInput(raw string) (url, question string, ok bool) {
	lines := strings.SplitN(strings.TrimSpace(raw), "\n", 2)
	if len(lines) < 2 {
		return "", "", false
	}
	url = strings.TrimSpace(lines[0])
	question = strings.TrimSpace(lines[1])
	return url, question, url != "" && question != ""
}

func renderSummary(res *PipelineResult, codePath, docPath string, styles ui.Styles) string {
	var b strings.Builder
	switch res.RepairState {
	case RepairSuccess:
		b.WriteString(styles.Success.Render(fmt.Sprintf("✅ Program ran cleanly after %d attempt(s).", res.RepairAttempts+1)) + "\n")
	case RepairGivenUp:
		b.WriteString(styles.Warn.Render(fmt.Sprintf("⚠️  Gave up after %d attempt(s); best candidate saved anyway.", res.RepairAttempts)) + "\n")
	}
	if res.Optimized {
		b.WriteString(styles.Success.Render(fmt.Sprintf("🚀 Optimized: %s → %s", res.RunBeforeOpt, res.RunAfterOpt)) + "\n")
	}
	b.WriteString(fmt.Sprintf("Lint: %s", res.LintState) + "\n")
	for _, w := range res.Warnings {
		b.WriteString(styles.Warn.Render("⚠️  "+w) + "\n")
	}
	if codePath != "" {
		b.WriteString(styles.Subtle.Render("💾 "+codePath) + "\n")
	}
	if docPath != "" {
		b.WriteString(styles.Subtle.Render("💾 "+docPath) + "\n")
	}
	return b.String()
}
