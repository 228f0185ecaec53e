// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the termute application.
package util

import (
	"github.com/mattn/go-runewidth"
)

// TruncateWidth truncates a string to a maximum display width, appending
// "..." when there is room for it. Display width comes from go-runewidth,
// so double-width (CJK) characters count as 2 columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	runes := []rune(s)
	width := 0
	for i, r := range runes {
		charWidth := runewidth.RuneWidth(r)
		if width+charWidth > maxWidth {
			if maxWidth >= 3 && width >= 3 {
				return string(runes[:i]) + "..."
			}
			return string(runes[:i])
		}
		width += charWidth
	}
	return s
}
