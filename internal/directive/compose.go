// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directive implements the @ and / mini-language for composing
// prompts with editor, file, and git context.
package directive

import (
	"context"
	"strings"
)

// =============================================================================
// MODE PROMPTS
// =============================================================================

// codeSystemPrompt is attached to the system instruction by /code.
const codeSystemPrompt = `
You are an AI programming assistant.

When asked to generate code, output only those parts of the code that are
relevant to the user's request and need to be modified. DO NOT output
entire files unless asked to do so.

DO NOT output diff patches unless asked to do so. Instead, output
the code as it should be after the change.
`

// commitPrompt is appended to the prompt body by /commit. The /commit
// directive also attaches the assistant persona line to the system
// instruction; the template itself is prompt text, not a system prompt.
const commitPrompt = `
Write commit message for the change following the Conventional Commits format.
Tell me what the change does, not how it does it.
Explain motivation for the change and how it addresses the issue.
Use imperatiive mood.
`

// commitSystemLine is the system persona attached by /commit.
const commitSystemLine = "You are an AI programming assistant."

// CodeSystemPrompt returns the fixed /code system instruction text.
func CodeSystemPrompt() string {
	return strings.TrimSpace(codeSystemPrompt)
}

// CommitPrompt returns the fixed /commit instruction template.
func CommitPrompt() string {
	return strings.TrimSpace(commitPrompt)
}

// =============================================================================
// COMPOSER
// =============================================================================

// Composition is the result of directive expansion.
type Composition struct {
	// Prompt is the composed prompt sent to the model: preamble blocks
	// followed by the literal body lines, newline-joined.
	Prompt string

	// System is the extracted system instruction; empty means absent.
	System string
}

// HasSystem reports whether a system instruction was extracted.
func (c Composition) HasSystem() bool {
	return c.System != ""
}

// Composer expands a raw multi-line prompt using a set of context providers.
type Composer struct {
	providers *Providers
}

// NewComposer creates a composer over the given providers.
func NewComposer(providers *Providers) *Composer {
	if providers == nil {
		providers = NewProviders(nil)
	}
	return &Composer{providers: providers}
}

// Compose processes the raw prompt line by line, expanding directives and
// accumulating the preamble, body, and system instruction.
//
// Directive lines are consumed; their expansions land in the preamble, which
// always precedes the whole body regardless of where the directives appeared
// in the raw input. Any provider failure aborts the composition with no
// partial result.
func (c *Composer) Compose(ctx context.Context, rawPrompt string) (Composition, error) {
	var preamble, prompt, system []string

	for _, line := range strings.Split(rawPrompt, "\n") {
		d, err := ParseLine(line)
		if err != nil {
			return Composition{}, err
		}

		block, err := c.expand(ctx, d, &prompt, &system)
		if err != nil {
			return Composition{}, err
		}
		preamble = append(preamble, block...)
	}

	return Composition{
		Prompt: strings.Join(append(preamble, prompt...), "\n"),
		System: strings.Join(system, "\n"),
	}, nil
}

// expand applies one directive, returning preamble blocks for context
// directives and mutating the body/system accumulators for the rest.
func (c *Composer) expand(ctx context.Context, d Directive, prompt, system *[]string) ([]string, error) {
	switch d.Kind {
	case KindBuffer:
		return c.providers.Buffer()

	case KindFiles:
		return c.providers.Files(d.Pattern)

	case KindGitDiff:
		return c.providers.GitDiff(ctx)

	case KindGitStaged:
		return c.providers.GitStaged(ctx)

	case KindGitFiles:
		return c.providers.GitFiles(ctx, d.Pattern)

	case KindCodeMode:
		*system = append(*system, strings.Split(CodeSystemPrompt(), "\n")...)
		return nil, nil

	case KindCommitMode:
		*system = append(*system, commitSystemLine)
		*prompt = append(*prompt, strings.Split(CommitPrompt(), "\n")...)
		return nil, nil

	default: // KindPlainLine
		*prompt = append(*prompt, d.Text)
		return nil, nil
	}
}
