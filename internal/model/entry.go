// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat turns and model requests.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PROMPT ENTRY
// =============================================================================

// PromptEntry is one user turn in the chat history.
//
// ComposedPrompt and SystemInstruction are computed once at creation time by
// the directive parser and never change afterwards; regenerating a response
// reuses them. Responses always contains at least one element. The last
// element is the variant currently being streamed (or the final text once the
// stream has completed).
type PromptEntry struct {
	// ID identifies the entry within a process lifetime.
	ID string

	// RawText is exactly what the user typed, newline-joined and trimmed.
	RawText string

	// ComposedPrompt is RawText after directive expansion (preamble + body).
	ComposedPrompt string

	// SystemInstruction is the optional system prompt extracted during
	// composition. Empty string means absent.
	SystemInstruction string

	// Responses holds the response variants, oldest first. Length >= 1.
	Responses []string

	CreatedAt time.Time
}

// NewPromptEntry creates an entry with a single empty response variant.
func NewPromptEntry(rawText, composedPrompt, systemInstruction string) *PromptEntry {
	return &PromptEntry{
		ID:                uuid.NewString(),
		RawText:           rawText,
		ComposedPrompt:    composedPrompt,
		SystemInstruction: systemInstruction,
		Responses:         []string{""},
		CreatedAt:         time.Now(),
	}
}

// LatestResponse returns the most recent response variant.
func (e *PromptEntry) LatestResponse() string {
	return e.Responses[len(e.Responses)-1]
}

// AppendToLatest appends streamed text to the most recent response variant.
func (e *PromptEntry) AppendToLatest(fragment string) {
	e.Responses[len(e.Responses)-1] += fragment
}

// SetLatest replaces the most recent response variant.
func (e *PromptEntry) SetLatest(text string) {
	e.Responses[len(e.Responses)-1] = text
}

// AddVariant appends a new empty response variant for regeneration.
func (e *PromptEntry) AddVariant() {
	e.Responses = append(e.Responses, "")
}

// VariantCount returns the number of response variants.
func (e *PromptEntry) VariantCount() int {
	return len(e.Responses)
}

// Clone returns a deep copy of the entry. Renderers work on clones so the
// streaming worker can keep mutating the live entry.
func (e *PromptEntry) Clone() *PromptEntry {
	clone := *e
	clone.Responses = make([]string, len(e.Responses))
	copy(clone.Responses, e.Responses)
	return &clone
}
