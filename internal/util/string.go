// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"net/url"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// TruncateWidth shortens s to at most maxWidth terminal cells, ending in
// "..." when anything was cut. Wide runes (CJK, emoji) count as two cells.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// StringWidth returns the number of terminal cells s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// FirstLine returns s up to its first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ParseCommand splits "/name arg..." into its lowercased name and args.
// Text that does not start with a slash, or is only a slash, is not a command.
func ParseCommand(text string) (name string, args []string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}
	parts := strings.Fields(text)
	name = strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	if name == "" {
		return "", nil, false
	}
	return name, parts[1:], true
}

// HostOf returns the host[:port] of an endpoint URL, or the input when it
// does not parse as an absolute URL.
func HostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}
