// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat window for the termute TUI.
//
// This file defines keyboard bindings for the chat window.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat window.
type KeyMap struct {
	Ask        key.Binding
	Submit     key.Binding
	NewLine    key.Binding
	CancelAsk  key.Binding
	Regenerate key.Binding
	Clear      key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat window.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Ask: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "ask"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("Enter", "submit"),
		),
		NewLine: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("C-j", "new line"),
		),
		CancelAsk: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "regenerate"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear chat"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
