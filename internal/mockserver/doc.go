// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mockserver provides a development endpoint for rigchat.
//
// It answers POST / with one of several response shapes so that every branch
// of reply extraction can be exercised without a real backend.
//
// Endpoints:
//   - POST /        - conversational endpoint, shape chosen by the server mode
//   - POST /{shape} - same, forcing a shape for this request
//   - GET  /health  - health check
//
// Shapes:
//
//	output      {"output": "..."}            application/json
//	reply       {"reply": "..."}             application/json
//	array       ["...", "ignored"]           application/json
//	text        plain reply text              text/plain
//	mislabeled  plain reply text              application/json
//	error       {"error": "..."}              500
//	cycle       rotates through the shapes above per request
package mockserver
