// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// IDENTITY
// =============================================================================

// canonicalV4 matches a lowercase RFC 4122 version 4, variant 10 UUID.
var canonicalV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// Identity is a session identifier formatted as a canonical v4 UUID.
type Identity struct {
	id uuid.UUID
}

// String returns the canonical form xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx.
func (i Identity) String() string {
	return i.id.String()
}

// Short returns the first eight hex digits for compact display.
func (i Identity) Short() string {
	return i.id.String()[:8]
}

// Valid reports whether the identity has the canonical v4/variant-10 shape.
func (i Identity) Valid() bool {
	return IsCanonical(i.String())
}

// IsCanonical reports whether s is a lowercase v4/variant-10 UUID string.
func IsCanonical(s string) bool {
	return canonicalV4.MatchString(s)
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generator produces session identities. The strong source is tried first;
// when it cannot deliver 16 bytes the fallback source is used instead.
// Either way the version and variant bits are always set.
type Generator struct {
	strong   io.Reader
	fallback io.Reader
}

// NewGenerator returns a generator backed by crypto/rand with a
// clock-seeded ChaCha8 stream as fallback.
func NewGenerator() *Generator {
	return NewGeneratorWithSources(rand.Reader, newFallbackSource(time.Now()))
}

// NewGeneratorWithSources builds a generator from explicit byte sources.
// A nil strong source means "not available" and selects the fallback directly.
func NewGeneratorWithSources(strong, fallback io.Reader) *Generator {
	if fallback == nil {
		fallback = newFallbackSource(time.Now())
	}
	return &Generator{strong: strong, fallback: fallback}
}

// Generate returns a new identity. It cannot fail.
func (g *Generator) Generate() Identity {
	if g.strong != nil {
		id, err := uuid.NewRandomFromReader(g.strong)
		if err == nil {
			return Identity{id: id}
		}
		log.Warn().Err(err).Msg("strong random source unavailable, using pseudo-random fallback")
	}

	id, err := uuid.NewRandomFromReader(g.fallback)
	if err != nil {
		// A misbehaving injected fallback must not break the format guarantee.
		id, _ = uuid.NewRandomFromReader(newFallbackSource(time.Now()))
	}
	return Identity{id: id}
}

// newFallbackSource returns a pseudo-random byte stream seeded from t.
// ChaCha8.Read never returns an error.
func newFallbackSource(t time.Time) io.Reader {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[0:], uint64(t.UnixNano()))
	binary.LittleEndian.PutUint64(seed[8:], uint64(t.Unix()))
	binary.LittleEndian.PutUint64(seed[16:], mrand.Uint64())
	binary.LittleEndian.PutUint64(seed[24:], mrand.Uint64())
	return mrand.NewChaCha8(seed)
}
