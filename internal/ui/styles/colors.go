// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the termute TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Cyan - Brand color, dividers, user highlights
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Purple - Assistant dividers, thinking marker
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, failed streams
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Slate - Secondary text, hints, intro
var Slate = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}

// =============================================================================
// NEUTRAL COLORS
// =============================================================================

// Border - Input area and viewport borders
var Border = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
