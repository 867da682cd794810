// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/rigchat/internal/engine"
	"github.com/jeranaias/rigchat/internal/export"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/render"
	"github.com/jeranaias/rigchat/internal/ui/components"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// noticeTTL is how long a slash command notice stays in the status bar.
const noticeTTL = 4 * time.Second

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the chat view to the rest of the application.
type Options struct {
	Engine   *engine.Engine
	Theme    *styles.Theme
	Terminal *render.Terminal // nil: plain text wrapping
	Pipeline *render.Pipeline // used by HTML export; nil disables it
	Endpoint string
	Examples []string
	WordWrap int // 0 = viewport width
	Export   *export.Options
	Context  context.Context
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	logger zerolog.Logger

	// Engine subscription
	states      <-chan model.State
	unsubscribe func()
	state       model.State

	// Styling and rendering
	theme    *styles.Theme
	terminal *render.Terminal
	pipeline *render.Pipeline
	wordWrap int
	cache    *renderCache

	// Dimensions
	width  int
	height int

	// UI Components
	viewport  viewport.Model
	input     textarea.Model
	spinner   spinner.Model
	help      help.Model
	statusBar *components.StatusBar
	examples  *components.Examples

	keyMap KeyMap

	endpoint   string
	exportOpts *export.Options

	notice   string
	noticeID int

	quitting bool
}

// New creates the chat model and subscribes to the engine.
func New(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ThemeAuto)
	}
	if opts.Terminal == nil {
		opts.Terminal = render.NewTerminal(opts.Theme.GlamourStyle(), false)
	}
	if opts.Export == nil {
		opts.Export = export.DefaultOptions()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	keys := DefaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.FocusedStyle.CursorLine = opts.Theme.Renderer().NewStyle()
	ta.Focus()

	vp := viewport.New(80, 20)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   keys.PageUp,
		PageDown: keys.PageDown,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.SpinnerFrames,
		FPS:    time.Second / 10,
	}
	sp.Style = opts.Theme.Spinner

	hp := help.New()
	hp.Styles.ShortKey = opts.Theme.Help
	hp.Styles.ShortDesc = opts.Theme.Help
	hp.Styles.FullKey = opts.Theme.Help
	hp.Styles.FullDesc = opts.Theme.Help

	states, cancel := opts.Engine.Subscribe()

	sb := components.NewStatusBar(opts.Theme)
	sb.Session = opts.Engine.Session().Short()
	sb.Endpoint = opts.Endpoint

	m := Model{
		ctx:         opts.Context,
		engine:      opts.Engine,
		logger:      log.With().Str("component", "ui").Logger(),
		states:      states,
		unsubscribe: cancel,
		state:       opts.Engine.State(),
		theme:       opts.Theme,
		terminal:    opts.Terminal,
		pipeline:    opts.Pipeline,
		wordWrap:    opts.WordWrap,
		cache:       newRenderCache(),
		width:       80,
		height:      24,
		viewport:    vp,
		input:       ta,
		spinner:     sp,
		help:        hp,
		statusBar:   sb,
		examples:    components.NewExamples(opts.Theme, opts.Examples),
		keyMap:      keys,
		endpoint:    opts.Endpoint,
		exportOpts:  opts.Export,
	}
	m.layout()
	m.updateViewport()
	return m
}

// Close cancels the engine subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts listening for engine state.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForState(m.states))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case StateMsg:
		return m.handleState(msg)

	case spinner.TickMsg:
		if !m.state.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SettingsMsg:
		return m.handleSettings(msg)

	case NoticeMsg:
		return m.showNotice(msg.Text)

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case ExportCompleteMsg:
		if msg.Error != nil {
			m.logger.Warn().Err(msg.Error).Msg("export failed")
			return m.showNotice("Export failed: " + msg.Error.Error())
		}
		return m.showNotice("Exported to " + msg.Path)

	case CopyCompleteMsg:
		if msg.Error != nil {
			m.logger.Warn().Err(msg.Error).Msg("clipboard write failed")
			return m.showNotice("Copy failed: " + msg.Error.Error())
		}
		return m.showNotice("Copied last reply to clipboard")
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)
	m.layout()
	m.updateViewport()
	return m, nil
}

func (m Model) handleState(msg StateMsg) (tea.Model, tea.Cmd) {
	wasPending := m.state.Pending
	grew := len(msg.State.Log) != len(m.state.Log)
	m.state = msg.State

	cmds := []tea.Cmd{waitForState(m.states)}
	if m.state.Pending && !wasPending {
		cmds = append(cmds, m.spinner.Tick)
	}
	if len(m.state.Log) > 0 {
		m.examples.Blur()
	}

	m.layout()
	m.updateViewport()
	if grew {
		m.viewport.GotoBottom()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSettings(msg SettingsMsg) (tea.Model, tea.Cmd) {
	m.wordWrap = msg.WordWrap
	focused := m.examples.Focused
	m.examples = components.NewExamples(m.theme, msg.Examples)
	if focused {
		m.examples.Focus()
		if !m.examples.Focused {
			cmd := m.input.Focus()
			m.layout()
			m.updateViewport()
			return m, cmd
		}
	}
	m.layout()
	m.updateViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m.quit()

	case key.Matches(msg, m.keyMap.Help):
		return m.toggleHelp()

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.examples.Focused {
		return m.handleExamplesKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keyMap.Examples) && m.showExamples():
		m.examples.Focus()
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.engine.UpdateDraft(after)
	}
	return m, cmd
}

func (m Model) handleExamplesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.examples.Up()
	case key.Matches(msg, m.keyMap.Down):
		m.examples.Down()
	case key.Matches(msg, m.keyMap.Back), key.Matches(msg, m.keyMap.Examples):
		m.examples.Blur()
		return m, m.input.Focus()
	case key.Matches(msg, m.keyMap.Submit):
		text, ok := m.examples.Current()
		m.examples.Blur()
		cmd := m.input.Focus()
		if ok {
			m.engine.SubmitText(m.ctx, text)
		}
		return m, cmd
	}
	return m, nil
}

// submitInput handles Enter in the input. Known slash commands run locally;
// everything else goes to the engine, which ignores blank text and
// submissions while a reply is pending.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	if name, args, ok := util.ParseCommand(text); ok {
		if handler, known := commandHandlers[name]; known {
			m.input.Reset()
			m.engine.UpdateDraft("")
			return handler(&m, args)
		}
	}

	m.engine.UpdateDraft(text)
	if m.engine.Submit(m.ctx) {
		m.input.Reset()
	}
	return m, nil
}

func (m Model) toggleHelp() (tea.Model, tea.Cmd) {
	m.help.ShowAll = !m.help.ShowAll
	m.layout()
	m.updateViewport()
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Close()
	return m, tea.Quit
}

func (m Model) showNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeID++
	m.notice = text
	id := m.noticeID
	return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (m Model) showExamples() bool {
	return len(m.state.Log) == 0 && !m.state.Pending && !m.examples.Empty()
}
