// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generateContent API.
//
// The client implements the engine's model-request contract: given an ordered
// message list, an optional system instruction, and the streaming flag, it
// either returns one full response text or yields a sequence of text
// fragments over SSE. Chat roles map onto the provider's wire roles as
// user -> "user" and assistant -> "model".
//
// The API key is read from the process environment at request time; a missing
// key is a fatal configuration error for any model call.
package gemini
