// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat turns and model requests.
package model

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// =============================================================================
// MESSAGE AND REQUEST TYPES
// =============================================================================

// Message is one message in a model request.
type Message struct {
	Role    Role
	Content string
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Request is the provider-independent model request contract: an ordered
// message list, an optional system instruction, and the streaming flag.
type Request struct {
	Messages []Message
	System   string
	Stream   bool
}

// =============================================================================
// HISTORY PROJECTION
// =============================================================================

// BuildRequest projects a chat history into a model request.
//
// Every entry except the last contributes a user message with its composed
// prompt and an assistant message with its latest response variant. The last
// entry (the turn being dispatched) contributes only its composed prompt; its
// system instruction becomes the request system field. The projection is
// recomputed fresh for every dispatch.
func BuildRequest(history []*PromptEntry, stream bool) Request {
	req := Request{Stream: stream}
	if len(history) == 0 {
		return req
	}

	for _, entry := range history[:len(history)-1] {
		req.Messages = append(req.Messages,
			NewUserMessage(entry.ComposedPrompt),
			NewAssistantMessage(entry.LatestResponse()),
		)
	}

	current := history[len(history)-1]
	req.Messages = append(req.Messages, NewUserMessage(current.ComposedPrompt))
	req.System = current.SystemInstruction

	return req
}
