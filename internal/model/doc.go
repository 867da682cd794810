// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the conversation.
//
// # Key Types
//
//   - Message: Single immutable utterance with a role and content
//   - Log: Append-only ordered sequence of messages
//   - Envelope: Wire payload sent to the remote endpoint on every send
//   - State: Snapshot of the conversation engine (log, draft, pending, last error)
//
// # Usage
//
//	var log model.Log
//	log.Append(model.NewUserMessage("Hello!"))
//	for _, m := range log.Snapshot() {
//	    fmt.Println(m.Role.DisplayName(), m.Content)
//	}
package model
