// termute - a terminal chat assistant with context directives.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/termute/internal/cli"
	"github.com/morganforge/termute/internal/config"
	"github.com/morganforge/termute/internal/directive"
	"github.com/morganforge/termute/internal/engine"
	"github.com/morganforge/termute/internal/gemini"
	"github.com/morganforge/termute/internal/logging"
	"github.com/morganforge/termute/internal/transcript"
	"github.com/morganforge/termute/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		os.Exit(cli.HandleAsk(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.Usage()
	}
}

// runTUI wires the engine to the chat window and runs the program.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if args.Model != "" {
		cfg.Gemini.Model = args.Model
	}
	if args.Verbose {
		cfg.Log.Debug = true
	}

	logPath := cfg.Log.Path
	if logPath == "" && cfg.Log.Debug {
		if dir, dirErr := config.ConfigDir(); dirErr == nil {
			logPath = filepath.Join(dir, logging.DefaultFileName)
		}
	}
	logger, err := logging.New(logging.Options{Debug: cfg.Log.Debug, Path: logPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	workdir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	composer := directive.NewComposer(directive.NewProviders(&directive.Config{
		Screen:           directive.EmptyScreen{},
		WorkingDirectory: workdir,
	}))

	client := gemini.NewClientWithConfig(&gemini.ClientConfig{
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: time.Duration(cfg.Gemini.TimeoutSecs) * time.Second,
	})

	var archiver engine.Archiver
	if cfg.Archive.Enabled {
		archiver = &transcript.Archiver{
			Path:   cfg.Archive.FileName,
			Logger: logger,
		}
	}

	eng := engine.New(engine.Options{
		Composer: composer,
		Client:   client,
		Archiver: archiver,
		Logger:   logger,
	})

	window := chat.New(chat.Options{
		Engine:    eng,
		RuleWidth: cfg.UI.RuleWidth,
	})

	p := tea.NewProgram(
		window,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running termute: %v\n", err)
		os.Exit(1)
	}
}
