// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat window for the termute TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/termute/internal/engine"
	"github.com/morganforge/termute/internal/transcript"
	"github.com/morganforge/termute/internal/ui/styles"
)

// =============================================================================
// WINDOW MODE
// =============================================================================

// Mode represents the input mode of the chat window.
type Mode int

const (
	ModeView Mode = iota // Scrolling the transcript
	ModeAsk              // Composing a prompt
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat window.
type Model struct {
	// Session
	engine   *engine.Engine
	renderer transcript.Renderer

	// State
	mode     Mode
	thinking bool
	lines    []string
	errText  string

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	viewport viewport.Model
	input    textarea.Model

	// Key bindings
	keyMap KeyMap
}

// Options configures a new chat window.
type Options struct {
	Engine    *engine.Engine
	RuleWidth int
	Theme     *styles.Theme
}

// New creates a chat window over the given engine.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	input := textarea.New()
	input.Placeholder = "Ask anything. @buffer, @files, @git and /code, /commit expand context."
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.CharLimit = 0

	return Model{
		engine:   opts.Engine,
		renderer: transcript.Renderer{RuleWidth: opts.RuleWidth},
		theme:    theme,
		input:    input,
		keyMap:   DefaultKeyMap(),
		lines:    transcript.Renderer{RuleWidth: opts.RuleWidth}.Render(nil, false),
	}
}

// Init starts consuming the engine's update queue.
func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.engine.Updates())
}

// Mode returns the current input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Lines returns the transcript lines currently displayed.
func (m Model) Lines() []string {
	return m.lines
}
