// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/render"
)

func TestNewThemeFor_Names(t *testing.T) {
	tests := []struct {
		name      string
		wantName  string
		wantDark  bool
		wantPlain bool
		wantGlam  string
	}{
		{"dark", ThemeDark, true, false, render.StyleDark},
		{"light", ThemeLight, false, false, render.StyleLight},
		{"plain", ThemePlain, false, true, render.StylePlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := NewThemeFor(&bytes.Buffer{}, tt.name)
			require.NotNil(t, theme)
			assert.Equal(t, tt.wantName, theme.Name)
			assert.Equal(t, tt.wantPlain, theme.Plain)
			if !tt.wantPlain {
				assert.Equal(t, tt.wantDark, theme.IsDark)
			}
			assert.Equal(t, tt.wantGlam, theme.GlamourStyle())
		})
	}
}

func TestNewThemeFor_UnknownIsAuto(t *testing.T) {
	theme := NewThemeFor(&bytes.Buffer{}, "neon")
	assert.Equal(t, ThemeAuto, theme.Name)
	assert.False(t, theme.Plain)
}

func TestPlainThemeHasNoEscapes(t *testing.T) {
	theme := NewThemeFor(&bytes.Buffer{}, ThemePlain)
	assert.Equal(t, termenv.Ascii, theme.ColorProfile)

	for _, out := range []string{
		theme.UserLabel.Render("You"),
		theme.StatusError.Render("[X] boom"),
		theme.ExampleSelected.Render("pick me"),
	} {
		assert.Equal(t, ansi.Strip(out), out)
	}
}

func TestStylesRenderText(t *testing.T) {
	theme := NewThemeFor(&bytes.Buffer{}, ThemeDark)
	assert.Contains(t, theme.AssistantLabel.Render("Assistant"), "Assistant")
	assert.Contains(t, theme.MessageBody.Render("body"), "body")
	assert.Contains(t, theme.StatusBar.Render("status"), "status")
}

func TestLayoutMode(t *testing.T) {
	theme := NewThemeFor(&bytes.Buffer{}, ThemePlain)

	theme.SetSize(40, 20)
	assert.Equal(t, LayoutNarrow, theme.GetLayoutMode())
	theme.SetSize(80, 20)
	assert.Equal(t, LayoutMedium, theme.GetLayoutMode())
	theme.SetSize(120, 20)
	assert.Equal(t, LayoutWide, theme.GetLayoutMode())
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	for _, s := range []string{StatusIndicators.Ready, StatusIndicators.Pending, StatusIndicators.Error} {
		for _, r := range s {
			assert.Less(t, r, rune(128))
		}
	}
	assert.NotEmpty(t, SpinnerFrames)
}
