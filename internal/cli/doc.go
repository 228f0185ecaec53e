// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line argument parsing and the non-TUI command
// handlers for termute.
//
// The parser is hand-rolled: global flags, then a command word, then
// command-specific flags. Unknown first tokens are treated as ask queries.
package cli
