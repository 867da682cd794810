// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared across rigchat.
//
//   - AtomicWriteFile: crash-safe file writes (config save, transcript export)
//   - TruncateWidth, StringWidth: display-width aware string helpers for the TUI
//   - HostOf: the host portion of an endpoint URL for status display
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0644)
//	label := util.TruncateWidth(title, 30)
package util
