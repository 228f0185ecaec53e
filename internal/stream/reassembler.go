// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream turns a chunked network stream into stable display lines.
package stream

import (
	"strings"
)

// =============================================================================
// LINE REASSEMBLER
// =============================================================================

// Reassembler converts a fragment stream into line-aligned display updates.
//
// Feed each incoming fragment in arrival order; the returned slice holds the
// complete lines the fragment finished, if any. Call Flush once at stream end
// (success or failure) to obtain the trailing partial line.
//
// Not safe for concurrent use; a stream has exactly one producer.
type Reassembler struct {
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulated strings.Builder
	pending     string
	flushed     bool
}

// NewReassembler creates an empty reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Feed accumulates one fragment and returns the complete lines it finished.
// A fragment with no newline extends the pending partial line and returns nil.
func (r *Reassembler) Feed(fragment string) []string {
	r.accumulated.WriteString(fragment)

	parts := strings.Split(fragment, "\n")
	if len(parts) == 1 {
		r.pending += fragment
		return nil
	}

	lines := make([]string, 0, len(parts)-1)
	lines = append(lines, r.pending+parts[0])
	lines = append(lines, parts[1:len(parts)-1]...)
	r.pending = parts[len(parts)-1]

	return lines
}

// Flush returns the pending partial line and resets it. The reassembler keeps
// accumulating if fed again, but a stream normally ends here.
func (r *Reassembler) Flush() string {
	line := r.pending
	r.pending = ""
	r.flushed = true
	return line
}

// Pending returns the current unterminated partial line without consuming it.
func (r *Reassembler) Pending() string {
	return r.pending
}

// Accumulated returns the byte-identical concatenation of all fragments fed
// so far. This is the text stored in history when the stream completes.
func (r *Reassembler) Accumulated() string {
	return r.accumulated.String()
}

// Flushed reports whether Flush has been called.
func (r *Reassembler) Flushed() bool {
	return r.flushed
}
