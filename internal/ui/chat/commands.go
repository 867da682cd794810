// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/export"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command. It receives the model and the
// command arguments.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names to their handler functions. Names not
// listed here are not commands and are submitted verbatim.
var commandHandlers = map[string]CommandHandler{
	"help":   handleHelpCommand,
	"h":      handleHelpCommand,
	"?":      handleHelpCommand,
	"quit":   handleQuitCommand,
	"q":      handleQuitCommand,
	"exit":   handleQuitCommand,
	"copy":   handleCopyCommand,
	"y":      handleCopyCommand,
	"export": handleExportCommand,
	"e":      handleExportCommand,
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll


// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return m.toggleHelp()
}

func handleQuitCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return m.quit()
}

func handleCopyCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	reply, ok := m.state.LastReply()
	if !ok {
		return m.showNotice("Nothing to copy yet")
	}
	return *m, copyCmd(reply.Content)
}

func handleExportCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		return m.showNotice("Usage: /export md|json|html [path]")
	}

	exporter, err := export.ForFormat(args[0], m.exportOpts, m.pipeline)
	if err != nil {
		return m.showNotice(err.Error())
	}

	var path string
	if len(args) > 1 {
		path = strings.Join(args[1:], " ")
	}

	transcript := export.NewTranscript(m.engine.Session().String(), m.endpoint, m.state.Log)
	return *m, exportCmd(transcript, exporter, path, m.exportOpts)
}

// =============================================================================
// COMMANDS
// =============================================================================

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := writeClipboard(text)
		return CopyCompleteMsg{Chars: utf8.RuneCountInString(text), Error: err}
	}
}

func exportCmd(t *export.Transcript, exporter export.Exporter, path string, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		written, err := export.ExportToFile(t, exporter, path, opts)
		return ExportCompleteMsg{Path: written, Error: err}
	}
}
