// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"color codes", "\x1b[31mred\x1b[0m", "red"},
		{"osc title", "\x1b]0;pwned\x07text", "text"},
		{"bell and backspace", "a\x07b\x08c", "abc"},
		{"keeps newlines and tabs", "a\n\tb", "a\n\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestPlain(t *testing.T) {
	out := Plain("the quick brown fox jumps over the lazy dog", 20)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func TestTerminal_PlainMode(t *testing.T) {
	term := NewTerminal(StyleDark, false)
	out := term.Render("**bold** \x1b[2Jtext", 80)
	assert.Equal(t, "**bold** text", out)
}

func TestTerminal_Markdown(t *testing.T) {
	term := NewTerminal(StylePlain, true)
	out := term.Render("# Title\n\nSome *text*.", 60)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
	assert.NotContains(t, out, "\x1b]")
}

func TestTerminal_BadStyleFallsBack(t *testing.T) {
	term := NewTerminal("does-not-exist", true)
	out := term.Render("hello world", 40)
	assert.Equal(t, "hello world", out)
}

func TestTerminal_NarrowWidthClamped(t *testing.T) {
	term := NewTerminal(StylePlain, false)
	out := term.Render("aaaa bbbb cccc dddd eeee ffff", 1)
	lines := strings.Split(out, "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), minWrapWidth)
	}
}
