// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// ErrInvalidJSON is returned by FromJSON for bodies that do not parse.
var ErrInvalidJSON = errors.New("invalid JSON payload")

// Kind discriminates the payload shapes the extractor understands.
type Kind int

const (
	KindOther Kind = iota // numbers, booleans, null
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "other"
	}
}

// Payload is a parsed reply body. It holds either a JSON document (kept as
// raw bytes) or bare text that was not JSON at all.
type Payload struct {
	raw  []byte
	text string
	bare bool
}

// FromJSON wraps a JSON document. The bytes must be valid JSON.
func FromJSON(data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return Payload{}, ErrInvalidJSON
	}
	raw := make([]byte, len(trimmed))
	copy(raw, trimmed)
	return Payload{raw: raw}, nil
}

// FromText wraps a body that is known to be plain text.
func FromText(s string) Payload {
	return Payload{text: s, bare: true}
}

// Parse interprets a body of unknown type: JSON if it parses, bare text otherwise.
// Some servers label JSON as text/plain, so text bodies always get this attempt.
func Parse(data []byte) Payload {
	if p, err := FromJSON(data); err == nil {
		return p
	}
	return FromText(string(data))
}

// MustJSON is FromJSON for literals in tests and fixtures. It panics on bad input.
func MustJSON(s string) Payload {
	p, err := FromJSON([]byte(s))
	if err != nil {
		panic(errors.Wrapf(err, "MustJSON(%q)", s))
	}
	return p
}

// IsText reports whether the payload is bare text rather than JSON.
func (p Payload) IsText() bool {
	return p.bare
}

// Kind returns the shape of the payload's top-level value.
func (p Payload) Kind() Kind {
	if p.bare {
		return KindString
	}
	_, typ, _, err := jsonparser.Get(p.raw)
	if err != nil {
		return KindOther
	}
	return kindOf(typ)
}

func kindOf(typ jsonparser.ValueType) Kind {
	switch typ {
	case jsonparser.String:
		return KindString
	case jsonparser.Array:
		return KindArray
	case jsonparser.Object:
		return KindObject
	default:
		return KindOther
	}
}

// Dump renders the whole payload as stable text: indented JSON in the
// server's key order, or the text itself for bare payloads.
func Dump(p Payload) string {
	if p.bare {
		return p.text
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, p.raw, "", "  "); err != nil {
		return string(p.raw)
	}
	return buf.String()
}
