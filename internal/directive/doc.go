// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directive implements the @ and / mini-language for composing
// prompts with editor, file, and git context.
//
// A raw prompt is processed line by line. Lines starting with @ expand into
// context blocks (current buffer, file globs, git diffs and tracked files)
// that form the preamble of the composed prompt. Lines starting with /
// select a mode: /code attaches the code-generation system prompt, /commit
// attaches a commit-message instruction template. All other lines pass
// through verbatim as the prompt body.
//
// All preamble blocks precede all body lines in the composed prompt, even
// when directives are interspersed with prose in the raw input. That
// front-loading is a compatibility behavior and must not be "fixed".
//
// Context expansion is all-or-nothing: a provider either contributes its
// full block list or the whole composition fails with no partial output.
package directive
