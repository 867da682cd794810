// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"github.com/buger/jsonparser"
)

// PreferredKeys is the order in which object keys are tried for reply text.
var PreferredKeys = []string{"output", "reply", "message", "content", "text", "result"}

// Extract locates the reply text inside p. The second result is false when
// no string could be found; callers then fall back to Dump.
func Extract(p Payload) (string, bool) {
	if p.bare {
		return p.text, true
	}
	value, typ, _, err := jsonparser.Get(p.raw)
	if err != nil {
		return "", false
	}
	return resolve(value, typ)
}

// resolve matches on the value kind. jsonparser hands string values back
// without their quotes and still escaped.
func resolve(value []byte, typ jsonparser.ValueType) (string, bool) {
	switch kindOf(typ) {
	case KindString:
		return unquote(value)

	case KindArray:
		first, firstTyp, _, err := jsonparser.Get(value, "[0]")
		if err != nil {
			// empty array
			return "", false
		}
		return resolve(first, firstTyp)

	case KindObject:
		return preferredField(value)

	default:
		return "", false
	}
}

// preferredField returns the first preferred key holding a string. Only
// top-level keys count, and a repeated key keeps its last value.
func preferredField(obj []byte) (string, bool) {
	type field struct {
		value []byte
		typ   jsonparser.ValueType
	}
	fields := make(map[string]field, len(PreferredKeys))
	err := jsonparser.ObjectEach(obj, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil || !isPreferred(name) {
			return nil
		}
		fields[name] = field{value: value, typ: typ}
		return nil
	})
	if err != nil {
		return "", false
	}

	for _, key := range PreferredKeys {
		if f, ok := fields[key]; ok && f.typ == jsonparser.String {
			return unquote(f.value)
		}
	}
	return "", false
}

func isPreferred(name string) bool {
	for _, key := range PreferredKeys {
		if key == name {
			return true
		}
	}
	return false
}

func unquote(value []byte) (string, bool) {
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return "", false
	}
	return s, true
}
