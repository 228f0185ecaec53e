// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript renders chat history into display lines and archives
// finished conversations to the append-only log file.
//
// Rendering is a pure function from history to lines; the display applies the
// result wholesale. The archiver only ever appends; prior log content is
// never truncated or rewritten.
package transcript
