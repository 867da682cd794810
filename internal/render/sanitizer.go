// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes unsafe markup from an HTML fragment.
type Sanitizer interface {
	Sanitize(html string) string
}

// highlightClass matches the class names chroma and goldmark emit.
var highlightClass = regexp.MustCompile(`^[a-zA-Z0-9_\- ]+$`)

// NewSanitizer returns the user-generated-content policy extended with the
// class attributes used by highlighted code.
func NewSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(highlightClass).OnElements("span", "pre", "code", "div")
	return p
}
