// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the per-client session identity.
//
// An Identity is generated once when the client starts and is sent,
// unmodified, with every request for the lifetime of the process.
// It is never persisted.
//
// # Usage
//
//	id := session.NewGenerator().Generate()
//	fmt.Println(id.String()) // e.g. 3f0c2a9e-5b1d-4c6e-9a7f-0d2b4e6f8a1c
package session
