// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/protocol"
	"github.com/jeranaias/rigchat/internal/session"
	"github.com/jeranaias/rigchat/internal/transport"
)

// ApologyPrefix starts every failure reply.
const ApologyPrefix = "Sorry, I couldn't get a response: "

// Engine is the conversation state machine. Safe for concurrent use.
type Engine struct {
	sender  transport.Sender
	session session.Identity
	logger  zerolog.Logger

	mu        sync.Mutex
	log       model.Log
	draft     string
	pending   bool
	lastError string
	subs      map[int]chan model.State
	nextSub   int

	inflight errgroup.Group
}

// New creates an engine sending through sender under a freshly generated
// session identity.
func New(sender transport.Sender) *Engine {
	e := &Engine{
		sender:  sender,
		session: session.NewGenerator().Generate(),
		subs:    make(map[int]chan model.State),
	}
	e.inflight.SetLimit(1)
	e.logger = log.With().Str("component", "engine").Str("session", e.session.Short()).Logger()
	return e
}

// Session returns the identity sent with every envelope.
func (e *Engine) Session() session.Identity {
	return e.session
}

// =============================================================================
// STATE
// =============================================================================

// State returns a snapshot of the current state.
func (e *Engine) State() model.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() model.State {
	return model.State{
		Log:       e.log.Snapshot(),
		Draft:     e.draft,
		Pending:   e.pending,
		LastError: e.lastError,
	}
}

// UpdateDraft replaces the text being composed.
func (e *Engine) UpdateDraft(text string) {
	e.mu.Lock()
	e.draft = text
	e.publishLocked()
	e.mu.Unlock()
}

// Subscribe returns a channel that receives a snapshot after every state
// transition, and a function that cancels the subscription. Slow readers
// only ever see the latest snapshot.
func (e *Engine) Subscribe() (<-chan model.State, func()) {
	ch := make(chan model.State, 1)

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publishLocked delivers the current snapshot to every subscriber.
// Must be called with e.mu held.
func (e *Engine) publishLocked() {
	if len(e.subs) == 0 {
		return
	}
	snap := e.snapshotLocked()
	for _, ch := range e.subs {
		// Drop a stale undelivered snapshot so the newest one wins.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit sends the current draft. See SubmitText.
func (e *Engine) Submit(ctx context.Context) bool {
	e.mu.Lock()
	text := e.draft
	e.mu.Unlock()
	return e.SubmitText(ctx, text)
}

// SubmitText sends text as the next user message. It returns false without
// changing anything when text is blank or a call is already pending.
func (e *Engine) SubmitText(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	e.mu.Lock()
	if e.pending {
		e.mu.Unlock()
		e.logger.Debug().Msg("submit ignored, request pending")
		return false
	}
	e.pending = true
	e.lastError = ""
	e.log.Append(model.NewUserMessage(text))
	e.draft = ""
	e.publishLocked()
	e.mu.Unlock()

	env := model.Envelope{Session: e.session.String(), Message: text}
	callCtx := context.WithoutCancel(ctx)

	e.logger.Debug().Int("chars", len(text)).Msg("dispatching message")

	e.inflight.Go(func() error {
		payload, err := e.sender.Send(callCtx, env)
		e.settle(payload, err)
		return nil
	})
	return true
}

// settle records the outcome of the in-flight call.
func (e *Engine) settle(payload protocol.Payload, err error) {
	var reply string
	if err != nil {
		reply = ApologyPrefix + err.Error()
		e.logger.Warn().Err(err).Msg("send failed")
	} else if text, ok := protocol.Extract(payload); ok {
		reply = text
	} else {
		reply = protocol.Dump(payload)
		e.logger.Debug().Str("kind", payload.Kind().String()).Msg("no reply text found, showing payload")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.log.Append(model.NewFailureMessage(reply))
		e.lastError = reply
	} else {
		e.log.Append(model.NewAssistantMessage(reply))
	}
	e.pending = false
	e.publishLocked()
}

// Wait blocks until the in-flight call, if any, has settled.
func (e *Engine) Wait() {
	_ = e.inflight.Wait()
}
