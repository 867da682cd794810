// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the rigchat command line.
//
// Commands are built with cobra. Running rigchat with no subcommand starts
// the TUI; the other commands share the same engine and render pipeline:
//
//	rigchat                          full-screen chat
//	rigchat ask "question"           one message, reply on stdout
//	rigchat chat                     line-editing REPL
//	rigchat render [file]            markdown to sanitized HTML
//	rigchat config show|path|init|get|set
//	rigchat mock-server              local development endpoint
//	rigchat version
//
// Global flags (--endpoint, --config, --log-level, --no-markdown,
// --no-sanitize) override the loaded configuration for one run.
//
// The TUI logs to a rotating file so the screen stays clean; every other
// command logs to stderr.
package cli
