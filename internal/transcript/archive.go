// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript renders chat history into display lines and archives
// finished conversations to the append-only log file.
package transcript

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/morganforge/termute/internal/model"
)

// =============================================================================
// LOG ARCHIVER
// =============================================================================

// DefaultArchiveFile is the archive file name, created in the working
// directory.
const DefaultArchiveFile = ".termute.log"

// archiveRuleWidth is the column width of the log's entry dividers. The
// separator line between conversations is wider.
const archiveRuleWidth = 74

// separatorWidth is the length of the conversation separator line.
const separatorWidth = 80

// Archiver appends finished conversations to an on-disk log file.
type Archiver struct {
	// Path is the log file path. Empty means DefaultArchiveFile.
	Path string

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Archive appends the history to the log file. An empty history writes
// nothing. The file is created on first use and only ever appended to.
func (a *Archiver) Archive(history []*model.PromptEntry) error {
	if len(history) == 0 {
		return nil
	}

	path := a.Path
	if path == "" {
		path = DefaultArchiveFile
	}
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		logger.Error("could not open archive file", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(formatConversation(history)); err != nil {
		logger.Error("archive write failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to write archive %s: %w", path, err)
	}

	logger.Debug("conversation archived",
		zap.String("path", path),
		zap.Int("turns", len(history)))
	return nil
}

// formatConversation serializes one conversation block.
func formatConversation(history []*model.PromptEntry) string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("*", separatorWidth) + "\n\n")
	for _, entry := range history {
		sb.WriteString(archiveRule("--- User ") + "\n\n")
		sb.WriteString(entry.RawText + "\n\n")

		if entry.VariantCount() == 1 {
			sb.WriteString(archiveRule("--- Termute ") + "\n\n")
			sb.WriteString(entry.Responses[0] + "\n\n")
			continue
		}

		total := entry.VariantCount()
		for i, response := range entry.Responses {
			sb.WriteString(archiveRule(fmt.Sprintf("--- Termute %d/%d ", i+1, total)) + "\n\n")
			sb.WriteString(response + "\n\n")
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// archiveRule pads a divider prefix with dashes out to the archive rule width.
func archiveRule(prefix string) string {
	dashes := archiveRuleWidth - len(prefix)
	if dashes < 1 {
		dashes = 1
	}
	return prefix + strings.Repeat("-", dashes)
}
