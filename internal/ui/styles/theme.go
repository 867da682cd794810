// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigchat/internal/render"
)

// Theme names accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemePlain = "plain"
)

// Theme holds all the styled components for the application.
type Theme struct {
	Name string

	// Terminal capabilities
	IsDark       bool
	Plain        bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	ErrorLabel     lipgloss.Style
	Timestamp      lipgloss.Style
	MessageBody    lipgloss.Style
	Notice         lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	InputBlurred   lipgloss.Style

	// ==========================================================================
	// PENDING STYLES
	// ==========================================================================

	Spinner     lipgloss.Style
	PendingText lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusKey     lipgloss.Style
	StatusValue   lipgloss.Style
	StatusReady   lipgloss.Style
	StatusPending lipgloss.Style
	StatusError   lipgloss.Style

	// ==========================================================================
	// EXAMPLES PANEL STYLES
	// ==========================================================================

	ExamplesTitle   lipgloss.Style
	ExampleItem     lipgloss.Style
	ExampleSelected lipgloss.Style

	Help lipgloss.Style
}

// NewTheme creates a theme writing to stdout. Unknown names behave like
// ThemeAuto.
func NewTheme(name string) *Theme {
	return NewThemeFor(os.Stdout, name)
}

// NewThemeFor creates a theme for the given output.
func NewThemeFor(w io.Writer, name string) *Theme {
	r := lipgloss.NewRenderer(w)

	switch name {
	case ThemeDark:
		r.SetHasDarkBackground(true)
	case ThemeLight:
		r.SetHasDarkBackground(false)
	case ThemePlain:
		r.SetColorProfile(termenv.Ascii)
	default:
		name = ThemeAuto
	}

	t := &Theme{
		Name:         name,
		IsDark:       r.HasDarkBackground(),
		Plain:        name == ThemePlain,
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// Renderer returns the lipgloss renderer the styles were built with.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	// Header
	t.Header = s().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderBrand = s().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = s().
		Foreground(TextSecondary).
		Italic(true)

	// Messages
	t.UserLabel = s().
		Bold(true).
		Foreground(Cyan)

	t.AssistantLabel = s().
		Bold(true).
		Foreground(Purple)

	t.ErrorLabel = s().
		Bold(true).
		Foreground(Rose)

	t.Timestamp = s().
		Foreground(TextMuted)

	t.MessageBody = s().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.Notice = s().
		Foreground(Amber).
		Italic(true)

	// Input area
	t.InputContainer = s().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.InputFocused = t.InputContainer.Copy().
		BorderForeground(FocusRing)

	t.InputBlurred = t.InputContainer.Copy()

	// Pending
	t.Spinner = s().
		Foreground(Amber)

	t.PendingText = s().
		Foreground(TextSecondary).
		Italic(true)

	// Status bar
	t.StatusBar = s().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusKey = s().
		Foreground(TextMuted)

	t.StatusValue = s().
		Foreground(TextPrimary)

	t.StatusReady = s().
		Foreground(Emerald).
		Bold(true)

	t.StatusPending = s().
		Foreground(Amber).
		Bold(true)

	t.StatusError = s().
		Foreground(Rose).
		Bold(true)

	// Examples
	t.ExamplesTitle = s().
		Foreground(TextSecondary).
		Bold(true).
		MarginBottom(1)

	t.ExampleItem = s().
		Foreground(TextSecondary).
		PaddingLeft(2)

	t.ExampleSelected = s().
		Foreground(Purple).
		Background(SurfaceBright).
		Bold(true).
		PaddingLeft(2)

	t.Help = s().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GlamourStyle returns the terminal markdown style matching the theme.
func (t *Theme) GlamourStyle() string {
	switch {
	case t.Plain:
		return render.StylePlain
	case t.IsDark:
		return render.StyleDark
	default:
		return render.StyleLight
	}
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
