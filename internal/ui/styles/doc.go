// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the rigchat TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values so one palette serves light
and dark terminals:

	Cyan    - brand, user messages, focus ring
	Purple  - assistant messages, selected example
	Amber   - pending request
	Rose    - errors
	Emerald - ready

Status is never shown by color alone; StatusIndicators supplies ASCII
markers for every state.

# Theme System (theme.go)

A Theme owns its own lipgloss renderer so the configured theme wins over
terminal detection:

	theme := styles.NewTheme(cfg.UI.Theme) // auto, dark, light, plain
	if theme.Plain {
		// no colors at all
	}

GlamourStyle maps the theme to the markdown style used by render.Terminal.
*/
package styles
