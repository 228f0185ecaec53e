// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat turns and model requests.
//
// A PromptEntry is one user turn: the raw text the user typed, the composed
// prompt produced by directive expansion, an optional system instruction, and
// one or more response variants. The Session history is an ordered slice of
// PromptEntry values owned by the engine.
//
// BuildRequest projects a history into the flat message list sent to the
// model provider.
package model
