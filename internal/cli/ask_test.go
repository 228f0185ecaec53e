// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/termute/internal/directive"
)

func TestStyleOptionRendersConfiguredTheme(t *testing.T) {
	for _, theme := range []string{"", "auto", "dark", "light"} {
		t.Run("theme "+theme, func(t *testing.T) {
			renderer, err := glamour.NewTermRenderer(
				styleOption(theme),
				glamour.WithWordWrap(60),
			)
			if err != nil {
				t.Fatalf("NewTermRenderer(%q) failed: %v", theme, err)
			}

			out, err := renderer.Render("# heading\n\nsome body text")
			if err != nil {
				t.Fatalf("Render with theme %q failed: %v", theme, err)
			}
			if !strings.Contains(out, "heading") {
				t.Errorf("rendered output with theme %q lost the heading: %q", theme, out)
			}
		})
	}
}

func TestWriteVerboseTrace(t *testing.T) {
	var buf bytes.Buffer
	composition := directive.Composition{
		Prompt: "Here is the content of the current buffer:\nexplain this",
		System: "Only output code.",
	}

	writeVerboseTrace(&buf, "gemini-2.0-flash", composition)

	out := buf.String()
	for _, want := range []string{
		"model: gemini-2.0-flash",
		"system instruction:",
		"Only output code.",
		"composed prompt:",
		"explain this",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q:\n%s", want, out)
		}
	}
}

func TestWriteVerboseTraceOmitsEmptySystem(t *testing.T) {
	var buf bytes.Buffer

	writeVerboseTrace(&buf, "gemini-2.0-flash", directive.Composition{Prompt: "hello"})

	if strings.Contains(buf.String(), "system instruction") {
		t.Errorf("trace includes a system section for an empty instruction:\n%s", buf.String())
	}
}

func TestFileScreenReadsBuffers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	screen := fileScreen{paths: []string{path, filepath.Join(dir, "missing.go")}}
	surfaces := screen.VisibleSurfaces()

	if len(surfaces) != 1 {
		t.Fatalf("VisibleSurfaces() = %d surfaces, want 1 (missing files skipped)", len(surfaces))
	}
	if surfaces[0].Name != path {
		t.Errorf("surface name = %q, want %q", surfaces[0].Name, path)
	}
	want := []string{"package main", "", "func main() {}"}
	if len(surfaces[0].Lines) != len(want) {
		t.Fatalf("surface lines = %q, want %q", surfaces[0].Lines, want)
	}
}
