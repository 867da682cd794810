// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION LOG
// =============================================================================

// Log is the ordered message history of one session.
// Append order is chronological order is display order.
// The zero value is an empty log ready to use.
type Log struct {
	messages []Message
}

// Append adds a message to the end of the log.
func (l *Log) Append(msg Message) {
	l.messages = append(l.messages, msg)
}

// Snapshot returns a copy of the messages in append order.
func (l *Log) Snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// =============================================================================
// WIRE ENVELOPE
// =============================================================================

// Envelope is the JSON body sent with every request.
type Envelope struct {
	Session string `json:"session"`
	Message string `json:"message"`
}

// =============================================================================
// ENGINE STATE
// =============================================================================

// State is a point-in-time snapshot of the conversation engine.
// Snapshots never alias engine memory; callers may keep them.
type State struct {
	Log       []Message
	Draft     string
	Pending   bool
	LastError string // empty when there is no error to show
}

// HasError reports whether the last send failed.
func (s State) HasError() bool {
	return s.LastError != ""
}

// LastReply returns the newest assistant message in the snapshot.
func (s State) LastReply() (Message, bool) {
	for i := len(s.Log) - 1; i >= 0; i-- {
		if s.Log[i].Role == RoleAssistant {
			return s.Log[i], true
		}
	}
	return Message{}, false
}
