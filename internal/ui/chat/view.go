// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/engine"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/components"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// RENDER CACHE
// =============================================================================

// renderCache holds rendered message bodies for one wrap width. The log is
// append-only, so an entry stays valid until the width changes.
type renderCache struct {
	width  int
	bodies []string
}

func newRenderCache() *renderCache {
	return &renderCache{}
}

func (c *renderCache) get(i, width int) (string, bool) {
	if width != c.width || i >= len(c.bodies) {
		return "", false
	}
	return c.bodies[i], true
}

func (c *renderCache) put(i, width int, body string) {
	if width != c.width {
		c.width = width
		c.bodies = c.bodies[:0]
	}
	if i == len(c.bodies) {
		c.bodies = append(c.bodies, body)
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes the viewport and input from the measured heights of
// everything else on screen.
func (m *Model) layout() {
	inputWidth := m.width - 2
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.SetWidth(inputWidth)
	m.help.Width = m.width
	m.statusBar.SetWidth(m.width)
	m.examples.Width = m.width

	chrome := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.renderInput()) +
		lipgloss.Height(m.renderHelp()) +
		1 + // pending line
		1 // status bar

	vh := m.height - chrome
	if vh < 1 {
		vh = 1
	}
	vw := m.width
	if vw < 1 {
		vw = 1
	}
	m.viewport.Width = vw
	m.viewport.Height = vh
}

// wrapWidth is the width message bodies are rendered at.
func (m *Model) wrapWidth() int {
	w := m.viewport.Width - 4 // MessageBody padding + margin
	if m.wordWrap > 0 && m.wordWrap < w {
		w = m.wordWrap
	}
	return w
}

// updateViewport rebuilds the conversation content.
func (m *Model) updateViewport() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// RENDERING
// =============================================================================

func (m Model) renderChat() string {
	var body string
	if m.showExamples() {
		body = lipgloss.Place(m.viewport.Width, m.viewport.Height,
			lipgloss.Left, lipgloss.Center, m.examples.View(),
			lipgloss.WithWhitespaceChars(" "))
	} else {
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderPending(),
		m.renderInput(),
		m.renderHelp(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.HeaderBrand.Render("rigchat")
	if host := util.HostOf(m.endpoint); host != "" && t.GetLayoutMode() != styles.LayoutNarrow {
		title += " " + t.HeaderSubtitle.Render("talking to "+host)
	}
	return t.Header.Width(m.width).MaxHeight(1).Render(title)
}

func (m Model) renderMessages() string {
	msgs := m.state.Log
	if len(msgs) == 0 {
		return ""
	}

	width := m.wrapWidth()
	parts := make([]string, 0, len(msgs))
	for i, msg := range msgs {
		parts = append(parts, m.renderMessage(i, msg, width))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderMessage(i int, msg model.Message, width int) string {
	t := m.theme

	label := t.AssistantLabel
	switch {
	case msg.Role == model.RoleUser:
		label = t.UserLabel
	case msg.Failed:
		label = t.ErrorLabel
	}

	header := label.Render(msg.Role.DisplayName())
	if !msg.Timestamp.IsZero() {
		header += " " + t.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	body, ok := m.cache.get(i, width)
	if !ok {
		body = m.terminal.Render(msg.Content, width)
		m.cache.put(i, width, body)
	}
	return header + "\n" + t.MessageBody.Render(body)
}

func (m Model) renderPending() string {
	if !m.state.Pending {
		return ""
	}
	return m.spinner.View() + " " + m.theme.PendingText.Render("Waiting for a reply...")
}

func (m Model) renderInput() string {
	style := m.theme.InputBlurred
	if m.input.Focused() {
		style = m.theme.InputFocused
	}
	return style.Width(m.width).Render(m.input.View())
}

func (m Model) renderHelp() string {
	return m.help.View(m.keyMap)
}

func (m Model) renderStatusBar() string {
	sb := m.statusBar
	switch {
	case m.state.Pending:
		sb.Status = components.StatusPending
	case m.state.HasError():
		sb.Status = components.StatusError
	default:
		sb.Status = components.StatusReady
	}
	sb.Error = strings.TrimPrefix(m.state.LastError, engine.ApologyPrefix)
	sb.Messages = len(m.state.Log)
	sb.Notice = m.notice
	return sb.View()
}
