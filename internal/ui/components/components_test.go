// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/ui/styles"
)

func plainTheme() *styles.Theme {
	return styles.NewThemeFor(&bytes.Buffer{}, styles.ThemePlain)
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Ready", StatusReady.String())
	assert.Equal(t, "Waiting...", StatusPending.String())
	assert.Equal(t, "Error", StatusError.String())
	assert.Equal(t, "Unknown", Status(99).String())
	assert.Equal(t, "?", Status(99).Icon())
}

func TestStatusBar_Wide(t *testing.T) {
	sb := NewStatusBar(plainTheme())
	sb.SetWidth(120)
	sb.Session = "1a2b3c4d"
	sb.Endpoint = "http://127.0.0.1:8787/"
	sb.Status = StatusError
	sb.Error = "server returned 502"
	sb.Messages = 2

	out := sb.View()
	assert.Contains(t, out, "[X] Error")
	assert.Contains(t, out, "session 1a2b3c4d")
	assert.Contains(t, out, "endpoint 127.0.0.1:8787")
	assert.Contains(t, out, "msgs 2")
	assert.Contains(t, out, "server returned 502")
	assert.Equal(t, 1, lipgloss.Height(out))
}

func TestStatusBar_NarrowDropsEndpoint(t *testing.T) {
	sb := NewStatusBar(plainTheme())
	sb.SetWidth(40)
	sb.Session = "1a2b3c4d"
	sb.Endpoint = "http://example.com/chat"
	sb.Error = "boom"

	out := sb.View()
	assert.Contains(t, out, "[OK] Ready")
	assert.NotContains(t, out, "example.com")
	assert.NotContains(t, out, "boom")
}

func TestStatusBar_NoticeWinsOverError(t *testing.T) {
	sb := NewStatusBar(plainTheme())
	sb.SetWidth(100)
	sb.Error = "boom"
	sb.Notice = "Copied to clipboard"

	out := sb.View()
	assert.Contains(t, out, "Copied to clipboard")
	assert.NotContains(t, out, "boom")
}

func TestStatusBar_LongErrorIsTruncated(t *testing.T) {
	sb := NewStatusBar(plainTheme())
	sb.SetWidth(70)
	sb.Session = "1a2b3c4d"
	sb.Error = strings.Repeat("very long failure ", 20)

	out := sb.View()
	assert.LessOrEqual(t, lipgloss.Width(out), 70)
	assert.Contains(t, out, "...")
}

// =============================================================================
// EXAMPLES
// =============================================================================

func TestExamples_DropsBlank(t *testing.T) {
	ex := NewExamples(plainTheme(), []string{"one", "  ", "", "two"})
	assert.Equal(t, []string{"one", "two"}, ex.Items)
}

func TestExamples_Navigation(t *testing.T) {
	ex := NewExamples(plainTheme(), []string{"a", "b", "c"})

	cur, ok := ex.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur)

	ex.Up()
	cur, _ = ex.Current()
	assert.Equal(t, "c", cur, "up wraps to the last item")

	ex.Down()
	ex.Down()
	cur, _ = ex.Current()
	assert.Equal(t, "b", cur)
}

func TestExamples_FocusOnEmpty(t *testing.T) {
	ex := NewExamples(plainTheme(), nil)
	ex.Focus()
	assert.False(t, ex.Focused)
	assert.Empty(t, ex.View())

	_, ok := ex.Current()
	assert.False(t, ok)

	ex.Up()
	ex.Down()
	assert.Equal(t, 0, ex.Selected)
}

func TestExamples_View(t *testing.T) {
	ex := NewExamples(plainTheme(), []string{"What's your experience with Go?", "Hi"})
	out := ex.View()
	assert.Contains(t, out, "tab to choose")
	assert.Contains(t, out, "What's your experience with Go?")
	assert.NotContains(t, out, "> ")

	ex.Focus()
	ex.Down()
	out = ex.View()
	assert.Contains(t, out, "enter to send")
	assert.Contains(t, out, "> Hi")
}
