// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/model"
)

// =============================================================================
// ENGINE MESSAGES
// =============================================================================

// StateMsg carries an engine snapshot into the Bubble Tea loop.
type StateMsg struct {
	State model.State
}

// waitForState reads the next snapshot from a subscription. It returns nil
// once the subscription is cancelled.
func waitForState(ch <-chan model.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return StateMsg{State: s}
	}
}

// =============================================================================
// NOTICE MESSAGES
// =============================================================================

// NoticeMsg shows a transient line in the status bar.
type NoticeMsg struct {
	Text    string
	IsError bool
}

// noticeExpiredMsg clears notice id if it is still the current one.
type noticeExpiredMsg struct {
	id int
}

// =============================================================================
// COMMAND RESULT MESSAGES
// =============================================================================

// ExportCompleteMsg reports the result of /export.
type ExportCompleteMsg struct {
	Path  string
	Error error
}

// CopyCompleteMsg reports the result of /copy.
type CopyCompleteMsg struct {
	Chars int
	Error error
}

// =============================================================================
// SETTINGS MESSAGES
// =============================================================================

// SettingsMsg applies reloaded UI settings to a running view.
type SettingsMsg struct {
	WordWrap int
	Examples []string
}
