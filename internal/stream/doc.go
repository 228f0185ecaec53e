// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream turns a chunked network stream into stable display lines.
//
// The model provider yields text fragments of arbitrary granularity; they are
// not aligned to line boundaries. The Reassembler accumulates fragments and
// emits only complete lines, holding back the unterminated trailing partial
// line so an incremental display surface never renders the same line twice.
//
// Reassembly is chunk-invariant: for any way of splitting a response into
// fragments, the accumulated text and the emitted line sequence are identical.
package stream
