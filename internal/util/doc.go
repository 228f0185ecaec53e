// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the termute application.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width truncation (CJK aware, via go-runewidth)
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for a fixed-width status line
//	display := util.TruncateWidth(longText, width)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile("config.toml", data, 0600)
package util
