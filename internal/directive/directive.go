// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directive implements the @ and / mini-language for composing
// prompts with editor, file, and git context.
package directive

import (
	"errors"
	"regexp"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidDirective is returned when a line begins with @ or / but
	// matches no known directive.
	ErrInvalidDirective = errors.New("invalid directive")

	// ErrNoBufferOpen is returned by @buffer when no editor surface is visible.
	ErrNoBufferOpen = errors.New("using @buffer, but no buffers open")

	// ErrAmbiguousBuffer is returned by @buffer when more than one surface
	// is visible.
	ErrAmbiguousBuffer = errors.New("using @buffer, but multiple buffers open")

	// ErrNoFilesMatched is returned when a file pattern matches nothing.
	ErrNoFilesMatched = errors.New("no files matched pattern")

	// ErrFileRead is returned when a matched file cannot be read.
	ErrFileRead = errors.New("failed to read file")

	// ErrGitCommand is returned when a git invocation fails.
	ErrGitCommand = errors.New("git command failed")

	// ErrNoChanges is returned by @git diff when the working tree is clean.
	ErrNoChanges = errors.New("using `@git diff`, but no changes found")

	// ErrNoStagedChanges is returned by @git staged when nothing is staged.
	ErrNoStagedChanges = errors.New("using `@git staged`, but no changes staged")
)

// =============================================================================
// DIRECTIVE TYPES
// =============================================================================

// Kind indicates the kind of directive a line was classified as.
type Kind int

const (
	KindPlainLine Kind = iota // literal prompt body text
	KindBuffer                // @buffer
	KindFiles                 // @files [pattern]
	KindGitDiff               // @git diff
	KindGitStaged             // @git staged
	KindGitFiles              // @git files [pattern]
	KindCodeMode              // /code
	KindCommitMode            // /commit
)

// String returns the string representation of the directive kind.
func (k Kind) String() string {
	switch k {
	case KindPlainLine:
		return "plain"
	case KindBuffer:
		return "buffer"
	case KindFiles:
		return "files"
	case KindGitDiff:
		return "git-diff"
	case KindGitStaged:
		return "git-staged"
	case KindGitFiles:
		return "git-files"
	case KindCodeMode:
		return "code-mode"
	case KindCommitMode:
		return "commit-mode"
	default:
		return "unknown"
	}
}

// Directive is the transient parse result for one raw prompt line.
type Directive struct {
	Kind Kind

	// Raw is the original line.
	Raw string

	// Pattern holds the glob pattern for KindFiles and KindGitFiles
	// (empty means the default pattern).
	Pattern string

	// Text holds the literal line for KindPlainLine.
	Text string
}

// =============================================================================
// LINE CLASSIFICATION
// =============================================================================

// Git subcommand patterns. Prefix matching (not full anchoring to the line
// end) mirrors the accepted grammar exactly.
var (
	gitDiffPattern   = regexp.MustCompile(`^@git\s+diff`)
	gitStagedPattern = regexp.MustCompile(`^@git\s+staged`)
	gitFilesPattern  = regexp.MustCompile(`^@git\s+files\s*(.*)`)
)

// ParseLine classifies one raw prompt line.
// Fails with ErrInvalidDirective for @ or / lines that match nothing known.
func ParseLine(line string) (Directive, error) {
	switch {
	case strings.HasPrefix(line, "@"):
		return parseContextLine(line)
	case strings.HasPrefix(line, "/"):
		return parseModeLine(line)
	default:
		return Directive{Kind: KindPlainLine, Raw: line, Text: line}, nil
	}
}

func parseContextLine(line string) (Directive, error) {
	switch {
	case strings.HasPrefix(line, "@buffer"):
		return Directive{Kind: KindBuffer, Raw: line}, nil

	case strings.HasPrefix(line, "@files"):
		pattern := strings.TrimSpace(strings.TrimPrefix(line, "@files"))
		return Directive{Kind: KindFiles, Raw: line, Pattern: pattern}, nil

	case strings.HasPrefix(line, "@git"):
		return parseGitLine(line)

	default:
		return Directive{}, invalidDirective("@", line)
	}
}

func parseGitLine(line string) (Directive, error) {
	switch {
	case gitDiffPattern.MatchString(line):
		return Directive{Kind: KindGitDiff, Raw: line}, nil

	case gitStagedPattern.MatchString(line):
		return Directive{Kind: KindGitStaged, Raw: line}, nil

	case gitFilesPattern.MatchString(line):
		m := gitFilesPattern.FindStringSubmatch(line)
		return Directive{Kind: KindGitFiles, Raw: line, Pattern: strings.TrimSpace(m[1])}, nil

	default:
		return Directive{}, invalidDirective("@git", line)
	}
}

func parseModeLine(line string) (Directive, error) {
	switch {
	case strings.HasPrefix(line, "/code"):
		return Directive{Kind: KindCodeMode, Raw: line}, nil

	case strings.HasPrefix(line, "/commit"):
		return Directive{Kind: KindCommitMode, Raw: line}, nil

	default:
		return Directive{}, invalidDirective("/", line)
	}
}

// invalidDirective wraps ErrInvalidDirective with the offending line.
func invalidDirective(prefix, line string) error {
	return &DirectiveError{Prefix: prefix, Line: line}
}

// DirectiveError reports an unrecognized @ or / line.
type DirectiveError struct {
	Prefix string
	Line   string
}

func (e *DirectiveError) Error() string {
	return "invalid " + e.Prefix + " directive: " + e.Line
}

func (e *DirectiveError) Unwrap() error {
	return ErrInvalidDirective
}
