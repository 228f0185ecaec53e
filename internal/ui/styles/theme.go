// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the termute TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	UserDivider      lipgloss.Style
	AssistantDivider lipgloss.Style
	ThinkingMarker   lipgloss.Style
	Intro            lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputHint      lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	StatusBar lipgloss.Style
	ErrorText lipgloss.Style
}

// NewTheme creates the default theme.
func NewTheme() *Theme {
	return &Theme{
		UserDivider: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),

		AssistantDivider: lipgloss.NewStyle().
			Foreground(Purple).
			Bold(true),

		ThinkingMarker: lipgloss.NewStyle().
			Foreground(Purple).
			Italic(true),

		Intro: lipgloss.NewStyle().
			Foreground(Slate),

		InputContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),

		InputHint: lipgloss.NewStyle().
			Foreground(Slate),

		StatusBar: lipgloss.NewStyle().
			Foreground(Slate),

		ErrorText: lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true),
	}
}

// Resize updates the stored dimensions.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
}
