// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for termute.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Model   string
	Verbose bool

	// Ask command
	Query   string
	Buffers []string // files exposed as visible surfaces for @buffer

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `termute - terminal chat assistant with context directives

Termute composes prompts from your input plus editor/file/git context and
streams the response into a chat transcript.

Usage:
  termute                     Start the chat TUI (default)
  termute ask "question"      Ask a single question, print the answer
  termute version             Show version information
  termute help                Show this help

Ask flags:
  -buffer FILE    Expose FILE as the visible buffer for @buffer (repeatable)
  -model NAME     Use a specific model (overrides config)
  -verbose        Print the model and composed prompt to stderr
                  (in the TUI, enables debug logging)

Directives (lines inside a prompt):
  @buffer              Include the visible buffer content
  @files [pattern]     Include files matching pattern (default **/*)
  @git diff            Include unstaged changes
  @git staged          Include staged changes
  @git files [pattern] Include tracked files
  /code                Answer with code only
  /commit              Write a commit message for the staged changes

Environment:
  GEMINI_API_KEY   API key (required for any model call)
  TERMUTE_MODEL    Override the configured model

Examples:
  termute
  termute ask "What does this code do?" -buffer main.go
  termute ask "@git staged
/commit"
`

// Usage prints command usage to stdout.
func Usage() {
	fmt.Print(usageText)
}

// PrintVersion prints version details.
func PrintVersion() {
	fmt.Printf("termute version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	var args Args

	remaining := parseGlobalFlags(argv, &args)
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	first := remaining[0]
	remaining = remaining[1:]
	args.Raw = remaining

	switch strings.ToLower(first) {
	case "tui":
		return CmdTUI, args

	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// An unknown first token is treated as an ask query, so
		// `termute "what is x"` just works.
		parseAskArgs(&args, append([]string{first}, remaining...))
		return CmdAsk, args
	}
}

// parseGlobalFlags consumes flags valid before the command word.
func parseGlobalFlags(argv []string, args *Args) []string {
	var remaining []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-m", "-model", "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		case "-verbose", "--verbose":
			args.Verbose = true
		default:
			remaining = append(remaining, argv[i:]...)
			return remaining
		}
	}
	return remaining
}

// parseAskArgs consumes ask flags; everything else joins into the query.
func parseAskArgs(args *Args, argv []string) {
	var query []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-b", "-buffer", "--buffer":
			if i+1 < len(argv) {
				i++
				args.Buffers = append(args.Buffers, argv[i])
			}
		case "-m", "-model", "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		case "-verbose", "--verbose":
			args.Verbose = true
		default:
			query = append(query, arg)
		}
	}

	args.Query = strings.Join(query, " ")
}
