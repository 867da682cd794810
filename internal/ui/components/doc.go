// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the rigchat TUI.

# Components

StatusBar (statusbar.go) - Bottom bar with status, short session id,
endpoint host and the last error or a transient notice. Narrow terminals
drop the endpoint and error.

Examples (examples.go) - Example prompts shown while the conversation is
empty. The chat view owns focus; the panel only tracks the selection.

Both components render through the styles.Theme they were created with
and keep no references to the engine.
*/
package components
