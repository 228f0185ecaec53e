// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the termute TUI.

This package defines the color palette and theme used by the chat window.
All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

  - Cyan - Brand color for user dividers and highlights
  - Purple - Assistant dividers and the thinking marker
  - Rose - Errors and failed streams
  - Slate - Secondary text and hints
  - Border - Input area borders

# Theme (theme.go)

Theme bundles the lipgloss styles the chat window renders with. NewTheme
builds the default theme; Resize records the current terminal dimensions.

Usage:

	theme := styles.NewTheme()
	theme.Resize(width, height)
	divider := theme.UserDivider.Render(rule)
*/
package styles
