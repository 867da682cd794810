// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so in that mode logs go to a rotating file.
// Command line modes log to stderr, colored only when stderr is a terminal.
package logging
