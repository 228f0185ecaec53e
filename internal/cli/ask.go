// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the termute CLI.
//
// Handles "termute ask", which composes one prompt (directives included),
// sends it non-streaming, and prints the rendered answer.
//
// Examples:
//   termute ask "What is a goroutine?"
//   termute ask "Explain this code" -buffer main.go
//   termute ask "@git staged
//   /commit"
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/termute/internal/config"
	"github.com/morganforge/termute/internal/directive"
	"github.com/morganforge/termute/internal/gemini"
	"github.com/morganforge/termute/internal/model"
)

// =============================================================================
// FILE-BACKED SCREEN
// =============================================================================

// fileScreen exposes files named on the command line as visible surfaces, so
// @buffer works in one-shot mode.
type fileScreen struct {
	paths []string
}

func (s fileScreen) VisibleSurfaces() []directive.Surface {
	var surfaces []directive.Surface
	for _, path := range s.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		surfaces = append(surfaces, directive.Surface{
			Name:  path,
			Lines: strings.Split(strings.TrimSuffix(string(data), "\n"), "\n"),
		})
	}
	return surfaces
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders markdown for terminal display with the configured
// syntax theme, falling back to the raw text when rendering fails. Piped
// output stays plain.
func renderMarkdown(content, theme string) string {
	if !IsStdoutTTY() {
		return content
	}

	renderer, err := glamour.NewTermRenderer(
		styleOption(theme),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// styleOption maps the configured syntax theme onto a glamour style. An empty
// or "auto" theme follows the terminal background.
func styleOption(theme string) glamour.TermRendererOption {
	switch theme {
	case "", "auto":
		return glamour.WithAutoStyle()
	default:
		return glamour.WithStandardStyle(theme)
	}
}

// writeVerboseTrace prints what will actually be sent: the model and the
// prompt after directive expansion.
func writeVerboseTrace(w io.Writer, modelName string, composition directive.Composition) {
	fmt.Fprintf(w, "model: %s\n", modelName)
	if composition.System != "" {
		fmt.Fprintf(w, "system instruction:\n%s\n", composition.System)
	}
	fmt.Fprintf(w, "composed prompt:\n%s\n", composition.Prompt)
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk executes the ask command. Returns a process exit code.
func HandleAsk(args Args) int {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		fmt.Fprintln(os.Stderr, "Error: no question given")
		fmt.Fprintln(os.Stderr, `Usage: termute ask "question" [-buffer file]`)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if args.Model != "" {
		cfg.Gemini.Model = args.Model
	}

	workdir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	composer := directive.NewComposer(directive.NewProviders(&directive.Config{
		Screen:           fileScreen{paths: args.Buffers},
		WorkingDirectory: workdir,
	}))

	composition, err := composer.Compose(context.Background(), query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if args.Verbose {
		writeVerboseTrace(os.Stderr, cfg.Gemini.Model, composition)
	}

	client := gemini.NewClientWithConfig(&gemini.ClientConfig{
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
	})

	req := model.Request{
		Messages: []model.Message{model.NewUserMessage(composition.Prompt)},
		System:   composition.System,
	}

	answer, err := client.Generate(context.Background(), req)
	if err != nil {
		if gemini.IsMissingCredential(err) {
			fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY is not set")
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	output := renderMarkdown(answer, cfg.UI.SyntaxTheme)
	fmt.Print(output)
	if !strings.HasSuffix(output, "\n") {
		fmt.Println()
	}
	return 0
}
