// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Terminal glamour styles.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// minWrapWidth keeps narrow terminals readable.
const minWrapWidth = 20

// Terminal renders markdown for display in a terminal.
type Terminal struct {
	style    string
	markdown bool
	logger   zerolog.Logger

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer // by wrap width
	broken    bool
}

// NewTerminal creates a terminal renderer. With markdown false, text is
// only cleaned and word wrapped.
func NewTerminal(style string, markdown bool) *Terminal {
	if style == "" {
		style = StyleAuto
	}
	return &Terminal{
		style:     style,
		markdown:  markdown,
		logger:    log.With().Str("component", "render").Logger(),
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render formats markdown for a terminal of the given width. Escape and
// control sequences in the input are removed first.
func (t *Terminal) Render(markdown string, width int) (out string) {
	clean := Clean(markdown)
	if width < minWrapWidth {
		width = minWrapWidth
	}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("terminal render panicked")
			out = Plain(clean, width)
		}
	}()

	if !t.markdown {
		return Plain(clean, width)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.rendererLocked(width)
	if r == nil {
		return Plain(clean, width)
	}
	rendered, err := r.Render(clean)
	if err != nil {
		return Plain(clean, width)
	}
	return strings.Trim(rendered, "\n")
}

func (t *Terminal) rendererLocked(width int) *glamour.TermRenderer {
	if t.broken {
		return nil
	}
	if r, ok := t.renderers[width]; ok {
		return r
	}

	styleOpt := glamour.WithStandardStyle(t.style)
	if t.style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		t.logger.Warn().Err(err).Str("style", t.style).Msg("markdown renderer unavailable")
		t.broken = true
		return nil
	}
	t.renderers[width] = r
	return r
}

// Clean strips ANSI escape sequences and control characters other than
// newline and tab from untrusted text.
func Clean(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Plain word wraps text without any formatting.
func Plain(s string, width int) string {
	return wordwrap.String(s, width)
}
