// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Divider styles must be distinguishable from plain text.
	if !theme.UserDivider.GetBold() {
		t.Error("UserDivider not bold")
	}
	if !theme.AssistantDivider.GetBold() {
		t.Error("AssistantDivider not bold")
	}
}

func TestThemeResize(t *testing.T) {
	theme := NewTheme()
	theme.Resize(120, 40)

	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("Resize() = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}
