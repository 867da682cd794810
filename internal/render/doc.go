// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns untrusted reply text into displayable output.
//
// Two renderers live here:
//
//   - Pipeline produces a safe HTML fragment. Markdown is formatted with
//     goldmark, fenced code is highlighted with chroma, and the result is
//     passed through a bluemonday policy. Both the formatter and the
//     sanitizer are capabilities loaded in the background; until they are
//     ready the pipeline degrades instead of failing.
//   - Terminal produces ANSI output for the TUI and CLI using glamour, with a
//     word-wrapped plain text fallback.
//
// Neither renderer ever returns an error or lets a panic escape.
//
// # Degradation
//
//	formatter  sanitizer  result
//	---------  ---------  -----------------------------------------------
//	missing    any        <pre> with the escaped input
//	ready      missing    formatted HTML with raw HTML fragments omitted
//	ready      ready      formatted HTML, then sanitized
package render
