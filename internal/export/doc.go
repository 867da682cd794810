// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation transcript to a file.
//
// Exports are one-off snapshots taken on request; nothing here is ever read
// back into a conversation.
//
// # Formats
//
//   - Markdown: YAML front matter followed by one section per message
//   - JSON: session metadata and the message list
//   - HTML: a standalone page, every message body passed through the
//     render pipeline so reply text is sanitized
//
// # Usage
//
//	t := export.NewTranscript(eng.Session().String(), endpoint, eng.State().Log)
//	exp, err := export.ForFormat("html", opts, pipeline)
//	path, err := export.ExportToFile(t, exp, "", opts)
package export
