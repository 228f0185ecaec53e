// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the structured logger shared across the
// application.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFileName is the log file created under the state directory.
const DefaultFileName = "termute-debug.log"

// Options control logger construction.
type Options struct {
	// Debug enables debug-level output.
	Debug bool

	// Path is the log file path. When empty the logger discards output.
	// Terminal UIs own stdout and stderr, so logs always go to a file.
	Path string
}

// New builds a structured logger writing to the configured file.
// With no path configured it returns a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.Path == "" {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	if opts.Debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{opts.Path}
	config.ErrorOutputPaths = []string{opts.Path}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
