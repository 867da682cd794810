// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat view for the rigchat TUI.

The Model is a thin Bubble Tea front end over an engine.Engine. It never
owns conversation state: every engine transition arrives as a StateMsg
through Subscribe, and the view is rebuilt from that snapshot.

# Keys

	Enter            submit the draft
	Alt+Enter, C-j   insert a line break
	Tab              focus the example prompts (empty conversation only)
	Up/Down          select an example while focused
	Esc              back to the input
	PgUp/PgDn        scroll the conversation
	F1               toggle full help
	C-c, C-q         quit

# Slash Commands

Handled locally before anything is submitted:

	/copy                      copy the last reply to the clipboard
	/export md|json|html [p]   write the transcript to a file
	/help                      toggle full help
	/quit                      leave

Any other text starting with "/" is sent to the endpoint verbatim.

# Rendering

Each message is rendered at display time through render.Terminal, so
nothing in the log is ever interpreted as terminal control sequences.
Rendered messages are cached per width since the log only grows.
*/
package chat
