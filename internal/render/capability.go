// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "sync/atomic"

// Capability is a value that becomes available at most once.
// Readiness is monotonic: once set it never reverts.
type Capability[T any] struct {
	v atomic.Pointer[holder[T]]
}

type holder[T any] struct {
	value T
}

// Ready reports whether the value has been installed.
func (c *Capability[T]) Ready() bool {
	return c.v.Load() != nil
}

// Get returns the value and whether it is ready.
func (c *Capability[T]) Get() (T, bool) {
	h := c.v.Load()
	if h == nil {
		var zero T
		return zero, false
	}
	return h.value, true
}

// Set installs value. Only the first call has any effect; it returns false
// when the capability was already ready.
func (c *Capability[T]) Set(value T) bool {
	return c.v.CompareAndSwap(nil, &holder[T]{value: value})
}
