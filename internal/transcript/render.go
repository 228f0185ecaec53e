// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript renders chat history into display lines and archives
// finished conversations to the append-only log file.
package transcript

import (
	"fmt"
	"strings"

	"github.com/morganforge/termute/internal/model"
)

// =============================================================================
// RENDERER
// =============================================================================

// DefaultRuleWidth is the column width divider rules are padded to.
const DefaultRuleWidth = 75

// ThinkingMarker is the transient line shown while a response streams.
const ThinkingMarker = "Thinking ..."

// Intro is shown in an empty chat window.
var Intro = []string{
	"",
	"# This is the Termute chat window. Press 'i' to enter a prompt.",
	"",
}

// Renderer turns chat history into display lines.
type Renderer struct {
	// RuleWidth is the column dividers are padded to. Zero means
	// DefaultRuleWidth.
	RuleWidth int
}

// Render produces the full transcript for the given history. When thinking is
// true a trailing marker line is appended.
func (r Renderer) Render(history []*model.PromptEntry, thinking bool) []string {
	var lines []string
	if len(history) > 0 {
		lines = r.renderHistory(history)
	} else {
		lines = append(lines, Intro...)
	}

	if thinking {
		lines = append(lines, ThinkingMarker)
	}
	return lines
}

func (r Renderer) renderHistory(history []*model.PromptEntry) []string {
	var lines []string
	for _, entry := range history {
		lines = append(lines, r.rule("#### User "), "")
		lines = append(lines, strings.Split(entry.RawText, "\n")...)
		lines = append(lines, "")

		if entry.VariantCount() == 1 {
			lines = append(lines, r.rule("#### Termute "), "")
			lines = append(lines, strings.Split(entry.Responses[0], "\n")...)
			lines = append(lines, "")
			continue
		}

		total := entry.VariantCount()
		for i, response := range entry.Responses {
			lines = append(lines, r.rule(fmt.Sprintf("#### Termute %d/%d ", i+1, total)), "")
			lines = append(lines, strings.Split(response, "\n")...)
			lines = append(lines, "")
		}
	}
	return lines
}

// rule pads a divider prefix with dashes out to the rule width.
func (r Renderer) rule(prefix string) string {
	width := r.RuleWidth
	if width == 0 {
		width = DefaultRuleWidth
	}

	dashes := width - len(prefix)
	if dashes < 1 {
		dashes = 1
	}
	return prefix + strings.Repeat("-", dashes)
}
