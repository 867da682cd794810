// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the rigchat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// STATUS
// =============================================================================

// Status represents the conversation status shown in the status bar.
type Status int

const (
	StatusReady Status = iota
	StatusPending
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusPending:
		return "Waiting..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns the ASCII indicator for the status.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Ready
	case StatusPending:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the single-line bar at the bottom of the chat view.
type StatusBar struct {
	Session  string // short session id
	Endpoint string // full endpoint URL; only the host is shown
	Status   Status
	Error    string // last error, shown on wide layouts
	Messages int
	Notice   string // transient message from a slash command
	Width    int

	theme *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: StatusReady,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme

	var statusStyle lipgloss.Style
	switch s.Status {
	case StatusPending:
		statusStyle = t.StatusPending
	case StatusError:
		statusStyle = t.StatusError
	default:
		statusStyle = t.StatusReady
	}

	left := []string{statusStyle.Render(s.Status.Icon() + " " + s.Status.String())}
	if s.Session != "" {
		left = append(left, t.StatusKey.Render("session ")+t.StatusValue.Render(s.Session))
	}
	if host := util.HostOf(s.Endpoint); host != "" && s.Width >= 60 {
		left = append(left, t.StatusKey.Render("endpoint ")+t.StatusValue.Render(host))
	}
	if s.Width >= 100 && s.Messages > 0 {
		left = append(left, t.StatusKey.Render("msgs ")+t.StatusValue.Render(itoa(s.Messages)))
	}
	line := strings.Join(left, t.StatusKey.Render(" | "))

	// Right side: a notice beats the last error.
	right, rightStyle := "", t.Notice
	switch {
	case s.Notice != "":
		right = s.Notice
	case s.Error != "" && s.Width >= 60:
		right, rightStyle = util.FirstLine(s.Error), t.StatusError
	}

	inner := s.Width - 2 // StatusBar padding
	if inner < 1 {
		inner = 1
	}
	if right != "" {
		room := inner - lipgloss.Width(line) - 1
		if room > len("...") {
			right = util.TruncateWidth(right, room)
			gap := inner - lipgloss.Width(line) - util.StringWidth(right)
			line += strings.Repeat(" ", gap) + rightStyle.Render(right)
		}
	}

	return t.StatusBar.Width(s.Width).MaxHeight(1).Render(line)
}
