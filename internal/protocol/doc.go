// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol models the reply payloads returned by the remote endpoint
// and recovers human-readable reply text from them.
//
// Backends answer in many shapes: a bare string, an array of results, or an
// object carrying the text under one of several conventional keys. Payload is
// a discriminated value over those shapes and Extract walks it with a fixed
// precedence:
//
//  1. string: returned as-is
//  2. non-empty array: the first element only
//  3. object: the first of output, reply, message, content, text, result
//     whose value is itself a string
//  4. anything else: no reply
//
// When Extract finds nothing, Dump gives a stable textual rendering of the
// whole payload to show instead.
package protocol
