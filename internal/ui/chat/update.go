// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat window for the termute TUI.
//
// This file implements the Bubble Tea update loop: key handling and the
// engine update consumer.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/termute/internal/engine"
	"github.com/morganforge/termute/internal/transcript"
)

// =============================================================================
// MESSAGES
// =============================================================================

// engineUpdateMsg wraps one event from the engine's FIFO update queue.
type engineUpdateMsg struct {
	update engine.Update
}

// engineClosedMsg signals the update queue was closed.
type engineClosedMsg struct{}

// waitForUpdate blocks on the engine queue and delivers the next event.
// Re-issued after every delivery so exactly one consumer exists.
func waitForUpdate(updates <-chan engine.Update) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return engineClosedMsg{}
		}
		return engineUpdateMsg{update: update}
	}
}

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case engineUpdateMsg:
		m = m.applyUpdate(msg.update)
		return m, waitForUpdate(m.engine.Updates())

	case engineClosedMsg:
		return m, tea.Quit
	}

	return m.updateComponents(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.Resize(msg.Width, msg.Height)

	inputHeight := m.input.Height() + 3
	if !m.ready {
		m.viewport = newViewport(msg.Width, msg.Height-inputHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - inputHeight
	}
	m.input.SetWidth(msg.Width - 4)

	m.refreshViewport()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.mode == ModeAsk {
		return m.handleAskKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Ask):
		m.mode = ModeAsk
		m.errText = ""
		return m, m.input.Focus()

	case key.Matches(msg, m.keyMap.Regenerate):
		if err := m.engine.RegenerateLast(); err != nil {
			m.errText = err.Error()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		if err := m.engine.Clear(); err != nil {
			m.errText = err.Error()
		}
		m = m.renderFull()
		return m, nil
	}

	// Everything else scrolls the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleAskKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.CancelAsk):
		m.mode = ModeView
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keyMap.NewLine):
		m.input.InsertString("\n")
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the prompt to the engine. The prompt box is cleared only on
// acceptance; a composition error keeps the text for editing.
func (m Model) submit() (Model, tea.Cmd) {
	raw := m.input.Value()

	if err := m.engine.StartTurn(raw); err != nil {
		m.errText = err.Error()
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.mode = ModeView
	m.errText = ""

	// A whitespace-only prompt dispatched nothing; the TurnStarted event
	// re-renders when a real turn begins.
	return m, nil
}

func (m Model) updateComponents(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	if m.mode == ModeAsk {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// =============================================================================
// ENGINE UPDATE APPLICATION
// =============================================================================

// applyUpdate applies one engine event to the display, preserving the order
// the streaming worker produced them.
func (m Model) applyUpdate(update engine.Update) Model {
	switch update := update.(type) {
	case engine.TurnStarted:
		m.thinking = true
		m = m.renderFull()

	case engine.AppendLines:
		m = m.appendLines(update.Lines, update.StillThinking)

	case engine.TurnCompleted:
		m.thinking = false
		m = m.renderFull()

	case engine.TurnFailed:
		m.thinking = false
		m.errText = update.Err.Error()
		m = m.renderFull()
	}
	return m
}

// renderFull replaces the whole transcript from a history snapshot.
func (m Model) renderFull() Model {
	history, busy := m.engine.Snapshot()
	m.lines = m.renderer.Render(history, busy)
	m.refreshViewport()
	return m
}

// appendLines is the incremental path: completed lines slot in before the
// transient thinking marker.
func (m Model) appendLines(lines []string, stillThinking bool) Model {
	trimmed := m.lines
	if len(trimmed) > 0 && trimmed[len(trimmed)-1] == transcript.ThinkingMarker {
		trimmed = trimmed[:len(trimmed)-1]
	}

	trimmed = append(trimmed, lines...)
	if stillThinking {
		trimmed = append(trimmed, transcript.ThinkingMarker)
	} else {
		m.thinking = false
	}

	m.lines = trimmed
	m.refreshViewport()
	return m
}

// refreshViewport pushes the current lines into the viewport and scrolls to
// the last line.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.styledTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) styledTranscript() string {
	styled := make([]string, len(m.lines))
	for i, line := range m.lines {
		switch {
		case strings.HasPrefix(line, "#### User "):
			styled[i] = m.theme.UserDivider.Render(line)
		case strings.HasPrefix(line, "#### Termute"):
			styled[i] = m.theme.AssistantDivider.Render(line)
		case line == transcript.ThinkingMarker:
			styled[i] = m.theme.ThinkingMarker.Render(line)
		default:
			styled[i] = line
		}
	}
	return strings.Join(styled, "\n")
}
