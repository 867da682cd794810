// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine owns the conversation state and drives the send cycle.
//
// An Engine holds the message log, the draft being composed, the pending
// flag and the last error. A submit appends the user's message, dispatches
// one transport call and, when it settles, appends exactly one assistant
// message: the extracted reply, a dump of the whole payload, or an apology
// naming the failure.
//
// Only one call is in flight at a time. A submit made while a call is
// pending is ignored rather than queued. Dispatched calls are never
// cancelled; they run to completion even if the submitting context ends.
//
// Observers receive a state snapshot after every transition via Subscribe.
package engine
