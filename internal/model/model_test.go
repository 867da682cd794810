// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_DisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Assistant", RoleAssistant.DisplayName())
	assert.Equal(t, "tool", Role("tool").DisplayName())
}

func TestLog_AppendPreservesOrder(t *testing.T) {
	var log Log
	log.Append(NewUserMessage("one"))
	log.Append(NewAssistantMessage("two"))
	log.Append(NewUserMessage("three"))

	msgs := log.Snapshot()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "three", msgs[2].Content)
}

func TestLog_MessagesIsACopy(t *testing.T) {
	var log Log
	log.Append(NewUserMessage("original"))

	msgs := log.Snapshot()
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", log.Snapshot()[0].Content)
}

func TestNewFailureMessage(t *testing.T) {
	msg := NewFailureMessage("Sorry")
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.True(t, msg.Failed)
	assert.False(t, NewAssistantMessage("fine").Failed)
}

func TestEnvelope_WireFormat(t *testing.T) {
	data, err := json.Marshal(Envelope{Session: "abc", Message: "Tell me about your experience"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"session":"abc","message":"Tell me about your experience"}`, string(data))
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("héllo wörld")
	assert.Equal(t, "héllo wörld", msg.Preview(20))
	assert.Equal(t, "héllo...", msg.Preview(8))
}

func TestState_LastReply(t *testing.T) {
	s := State{Log: []Message{NewUserMessage("q"), NewAssistantMessage("a"), NewUserMessage("q2")}}
	reply, ok := s.LastReply()
	require.True(t, ok)
	assert.Equal(t, "a", reply.Content)
	assert.False(t, s.HasError())
}
