// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader simulates an unavailable entropy source.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func TestGenerate_StrongSourceFormat(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := g.Generate()
		require.Truef(t, id.Valid(), "invalid identity %q", id.String())
		assert.False(t, seen[id.String()], "duplicate identity")
		seen[id.String()] = true
	}
}

func TestGenerate_FallbackSourceFormat(t *testing.T) {
	g := NewGeneratorWithSources(failingReader{}, newFallbackSource(time.Unix(1700000000, 0)))
	for i := 0; i < 500; i++ {
		id := g.Generate()
		require.Truef(t, id.Valid(), "invalid fallback identity %q", id.String())
	}
}

func TestGenerate_NilStrongSourceUsesFallback(t *testing.T) {
	g := NewGeneratorWithSources(nil, nil)
	assert.True(t, g.Generate().Valid())
}

func TestGenerate_SetsVersionAndVariantOnAnyBytes(t *testing.T) {
	// All-ones and all-zeros inputs must still come out as v4/variant 10.
	for _, b := range []byte{0x00, 0xff} {
		src := bytes.NewReader(bytes.Repeat([]byte{b}, 16))
		id := NewGeneratorWithSources(src, nil).Generate()
		assert.Truef(t, id.Valid(), "byte %#x produced %q", b, id.String())
	}
}

func TestGenerate_BrokenFallbackStillValid(t *testing.T) {
	g := NewGeneratorWithSources(failingReader{}, failingReader{})
	assert.True(t, g.Generate().Valid())
}

func TestIdentity_Short(t *testing.T) {
	id := NewGenerator().Generate()
	assert.Len(t, id.Short(), 8)
	assert.Equal(t, id.String()[:8], id.Short())
}

func TestIsCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"3f0c2a9e-5b1d-4c6e-9a7f-0d2b4e6f8a1c", true},
		{"3f0c2a9e-5b1d-4c6e-8a7f-0d2b4e6f8a1c", true},
		{"3f0c2a9e-5b1d-1c6e-9a7f-0d2b4e6f8a1c", false}, // version 1
		{"3f0c2a9e-5b1d-4c6e-ca7f-0d2b4e6f8a1c", false}, // variant 110
		{"3F0C2A9E-5B1D-4C6E-9A7F-0D2B4E6F8A1C", false},
		{"not-a-uuid", false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, IsCanonical(tt.in), "IsCanonical(%q)", tt.in)
	}
}
