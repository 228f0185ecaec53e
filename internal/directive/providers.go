// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directive implements the @ and / mini-language for composing
// prompts with editor, file, and git context.
package directive

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern is used when @files or @git files is given no pattern.
const DefaultPattern = "**/*"

// gitTimeout is the default timeout for git operations.
const gitTimeout = 10 * time.Second

// =============================================================================
// HOST INTERFACES
// =============================================================================

// Surface is one visible editor surface: a name and its exact lines.
type Surface struct {
	Name  string
	Lines []string
}

// Screen reports the surfaces currently visible in the host editor, excluding
// the chat and ask windows. The host (editor plugin, TUI, CLI) implements it.
type Screen interface {
	VisibleSurfaces() []Surface
}

// EmptyScreen is a Screen with no visible surfaces. Hosts without editor
// buffers (the standalone TUI) use it; @buffer then fails with ErrNoBufferOpen.
type EmptyScreen struct{}

// VisibleSurfaces returns no surfaces.
func (EmptyScreen) VisibleSurfaces() []Surface { return nil }

// GitRunner executes a git subcommand and returns its trimmed stdout.
// Injectable so tests can run without a repository.
type GitRunner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// execGitRunner runs the real git executable in a working directory.
type execGitRunner struct {
	dir string
}

func (r execGitRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	output, err := cmd.Output()
	if err != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// =============================================================================
// PROVIDER CONFIG
// =============================================================================

// Config holds the environment the context providers read from.
type Config struct {
	// Screen reports visible editor surfaces for @buffer.
	Screen Screen

	// WorkingDirectory is the base directory for globs and git commands.
	WorkingDirectory string

	// Git runs git subcommands. Nil selects the real executable.
	Git GitRunner
}

// DefaultConfig returns a provider config rooted at the current directory
// with no visible surfaces and the real git executable.
func DefaultConfig() *Config {
	wd, _ := os.Getwd()
	return &Config{
		Screen:           EmptyScreen{},
		WorkingDirectory: wd,
	}
}

// =============================================================================
// PROVIDERS
// =============================================================================

// Providers expands context directives into preamble blocks.
//
// Every provider is all-or-nothing: it returns either the complete block list
// for its directive or an error, never a partial block.
type Providers struct {
	screen  Screen
	workdir string
	git     GitRunner
}

// NewProviders creates providers from the given config.
func NewProviders(cfg *Config) *Providers {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	screen := cfg.Screen
	if screen == nil {
		screen = EmptyScreen{}
	}

	workdir := cfg.WorkingDirectory
	if workdir == "" {
		workdir, _ = os.Getwd()
	}

	git := cfg.Git
	if git == nil {
		git = execGitRunner{dir: workdir}
	}

	return &Providers{
		screen:  screen,
		workdir: workdir,
		git:     git,
	}
}

// =============================================================================
// BUFFER PROVIDER
// =============================================================================

// Buffer returns the contents of the single visible editor surface as a
// fenced block. Fails with ErrNoBufferOpen or ErrAmbiguousBuffer otherwise.
func (p *Providers) Buffer() ([]string, error) {
	surfaces := p.screen.VisibleSurfaces()

	switch {
	case len(surfaces) == 0:
		return nil, ErrNoBufferOpen
	case len(surfaces) > 1:
		return nil, ErrAmbiguousBuffer
	}

	block := []string{
		"Here is the content of the current buffer:",
		"",
		"```",
	}
	block = append(block, surfaces[0].Lines...)
	block = append(block,
		"```",
		"",
	)
	return block, nil
}

// =============================================================================
// FILES PROVIDER
// =============================================================================

// Files expands a glob pattern against the working directory and returns one
// fenced block per regular file, in lexicographic path order. An empty
// pattern defaults to every file, recursively.
func (p *Providers) Files(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	matches, err := doublestar.Glob(os.DirFS(p.workdir), pattern)
	if err != nil {
		// Malformed glob syntax, not an empty match set.
		return nil, &ProviderError{Op: "files", Path: pattern, Err: ErrInvalidDirective, Cause: err}
	}

	var files []string
	for _, match := range matches {
		if p.isRegularFile(match) {
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		return nil, &ProviderError{Op: "files", Path: pattern, Err: ErrNoFilesMatched}
	}

	sort.Strings(files)
	return p.fileBlocks(files)
}

// isRegularFile reports whether the slash-separated relative path names a
// regular file under the working directory.
func (p *Providers) isRegularFile(rel string) bool {
	info, err := os.Stat(filepath.Join(p.workdir, filepath.FromSlash(rel)))
	return err == nil && info.Mode().IsRegular()
}

// fileBlocks reads every path and emits one captioned fenced block per file.
// A read failure on any file aborts the whole expansion.
func (p *Providers) fileBlocks(files []string) ([]string, error) {
	var blocks []string
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(p.workdir, filepath.FromSlash(file)))
		if err != nil {
			return nil, &ProviderError{Op: "read", Path: file, Err: ErrFileRead, Cause: err}
		}

		blocks = append(blocks,
			"Here is the content of the file `"+file+"`:",
			"",
			"```",
			string(content),
			"```",
			"",
		)
	}
	return blocks, nil
}

// =============================================================================
// GIT PROVIDERS
// =============================================================================

// GitDiff returns the unstaged diff as a diff-fenced block.
// Fails with ErrGitCommand on command failure, ErrNoChanges if clean.
func (p *Providers) GitDiff(ctx context.Context) ([]string, error) {
	ctx, cancel := withGitTimeout(ctx)
	defer cancel()

	diff, err := p.git.Run(ctx, "diff")
	if err != nil {
		return nil, &ProviderError{Op: "git diff", Err: ErrGitCommand, Cause: err}
	}

	if diff == "" {
		return nil, ErrNoChanges
	}

	return []string{
		"Here are the current changes:",
		"",
		"```diff",
		diff,
		"```",
		"",
	}, nil
}

// GitStaged returns the staged diff as a diff-fenced block.
// Fails with ErrGitCommand on command failure, ErrNoStagedChanges if empty.
func (p *Providers) GitStaged(ctx context.Context) ([]string, error) {
	ctx, cancel := withGitTimeout(ctx)
	defer cancel()

	diff, err := p.git.Run(ctx, "diff", "--staged")
	if err != nil {
		return nil, &ProviderError{Op: "git staged", Err: ErrGitCommand, Cause: err}
	}

	if diff == "" {
		return nil, ErrNoStagedChanges
	}

	return []string{
		"Here are the changes staged for commit:",
		"",
		"```diff",
		diff,
		"```",
		"",
	}, nil
}

// GitFiles lists tracked files matching the pattern and returns one fenced
// block per regular file, lexicographic order. Directory entries (e.g.
// submodules) are skipped, not errors.
func (p *Providers) GitFiles(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	ctx, cancel := withGitTimeout(ctx)
	defer cancel()

	output, err := p.git.Run(ctx, "ls-files", pattern)
	if err != nil {
		return nil, &ProviderError{Op: "git ls-files", Path: pattern, Err: ErrGitCommand, Cause: err}
	}

	if output == "" {
		return nil, &ProviderError{Op: "git ls-files", Path: pattern, Err: ErrNoFilesMatched}
	}

	files := strings.Split(output, "\n")
	sort.Strings(files)

	var regular []string
	for _, file := range files {
		if p.isRegularFile(filepath.ToSlash(file)) {
			regular = append(regular, file)
		}
	}

	return p.fileBlocks(regular)
}

// withGitTimeout bounds git invocations that arrive without a deadline.
func withGitTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, gitTimeout)
}

// =============================================================================
// PROVIDER ERROR
// =============================================================================

// ProviderError carries the failing operation and path alongside the
// sentinel error the caller matches with errors.Is.
type ProviderError struct {
	Op    string
	Path  string
	Err   error
	Cause error
}

func (e *ProviderError) Error() string {
	msg := e.Err.Error()
	if e.Path != "" {
		msg += " `" + e.Path + "`"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
