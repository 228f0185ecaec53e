// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat window for the termute TUI.
//
// This file renders the window layout: transcript viewport, ask prompt, and
// status line.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/morganforge/termute/internal/util"
)

// newViewport creates the transcript viewport.
func newViewport(width, height int) viewport.Model {
	if height < 1 {
		height = 1
	}
	vp := viewport.New(width, height)
	return vp
}

// View renders the chat window.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	if m.mode == ModeAsk {
		sb.WriteString(m.theme.InputContainer.Render(m.input.View()))
		sb.WriteString("\n")
		sb.WriteString(m.theme.InputHint.Render("Enter submit · C-j new line · Esc cancel"))
	} else {
		sb.WriteString(m.statusLine())
	}

	return sb.String()
}

func (m Model) statusLine() string {
	if m.errText != "" {
		return m.theme.ErrorText.Render(util.TruncateWidth(m.errText, m.width))
	}

	hint := "i ask · r regenerate · C-l clear · q quit"
	if m.thinking {
		hint = "streaming · " + hint
	}
	return m.theme.StatusBar.Render(hint)
}
