// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport performs the single HTTP call behind every send.
//
// Each send is one POST of a JSON envelope to the configured endpoint.
// There are no retries and no client-level timeout; cancellation is left to
// the context supplied by the caller.
//
// # Response handling
//
//   - Status outside 200-299: *StatusError carrying the status code and text
//   - Declared JSON: parsed as JSON; if the body does not parse it is handled
//     like a text response instead of failing
//   - Any other content type: read as text, parsed as JSON when possible,
//     otherwise kept as a bare text payload
//   - Network failures: wrapped errors carrying the underlying description
//
// # Usage
//
//	client := transport.NewClient("https://example.com/chat")
//	payload, err := client.Send(ctx, model.Envelope{Session: id, Message: "Hi"})
package transport
