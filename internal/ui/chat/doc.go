// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat window for the termute TUI.
//
// The window is a viewport over the rendered transcript plus an ask prompt
// textarea. All session mutations go through the engine; the window consumes
// the engine's update queue one event at a time, so display updates apply in
// the exact order the streaming worker emitted them.
//
// # Key Bindings
//
//   - i: open the ask prompt
//   - enter: submit the prompt (ctrl+j inserts a newline)
//   - esc: close the ask prompt
//   - r: regenerate the last response
//   - ctrl+l: clear the chat (archives first)
//   - q, ctrl+c: quit
package chat
