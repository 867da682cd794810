// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// EXAMPLE PROMPTS PANEL
// =============================================================================

// Examples lists pre-populated prompts offered on an empty conversation.
// Choosing one submits its literal text.
type Examples struct {
	Items    []string
	Selected int
	Focused  bool
	Width    int

	theme *styles.Theme
}

// NewExamples creates the panel. Blank prompts are dropped.
func NewExamples(theme *styles.Theme, items []string) *Examples {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			kept = append(kept, item)
		}
	}
	return &Examples{
		Items: kept,
		Width: 80,
		theme: theme,
	}
}

// Empty reports whether there is nothing to offer.
func (e *Examples) Empty() bool {
	return len(e.Items) == 0
}

// Focus moves keyboard focus to the panel.
func (e *Examples) Focus() {
	if !e.Empty() {
		e.Focused = true
	}
}

// Blur returns focus to the input.
func (e *Examples) Blur() {
	e.Focused = false
}

// Up selects the previous prompt, wrapping around.
func (e *Examples) Up() {
	if e.Empty() {
		return
	}
	e.Selected = (e.Selected - 1 + len(e.Items)) % len(e.Items)
}

// Down selects the next prompt, wrapping around.
func (e *Examples) Down() {
	if e.Empty() {
		return
	}
	e.Selected = (e.Selected + 1) % len(e.Items)
}

// Current returns the selected prompt.
func (e *Examples) Current() (string, bool) {
	if e.Selected < 0 || e.Selected >= len(e.Items) {
		return "", false
	}
	return e.Items[e.Selected], true
}

// View renders the panel.
func (e *Examples) View() string {
	if e.Empty() {
		return ""
	}
	t := e.theme

	title := "Try one of these"
	if e.Focused {
		title += " (enter to send, esc to go back)"
	} else {
		title += " (tab to choose)"
	}

	width := e.Width - 4
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	b.WriteString(t.ExamplesTitle.Render(title))
	b.WriteString("\n")
	for i, item := range e.Items {
		text := util.TruncateWidth(util.FirstLine(item), width)
		if e.Focused && i == e.Selected {
			b.WriteString(t.ExampleSelected.Render("> " + text))
		} else {
			b.WriteString(t.ExampleItem.Render("  " + text))
		}
		if i < len(e.Items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
