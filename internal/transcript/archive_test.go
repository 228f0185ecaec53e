// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morganforge/termute/internal/model"
)

func TestArchiveEmptyHistoryWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")

	archiver := &Archiver{Path: path}
	if err := archiver.Archive(nil); err != nil {
		t.Fatalf("Archive(nil) error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("archive file created for empty history")
	}
}

func TestArchiveAppendsOneSeparatorBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	prior := "earlier content\n"
	if err := os.WriteFile(path, []byte(prior), 0644); err != nil {
		t.Fatalf("seeding archive: %v", err)
	}

	history := []*model.PromptEntry{
		entryWithResponse("first question", "first answer"),
		entryWithResponse("second question", "second answer\nwith two lines"),
	}

	archiver := &Archiver{Path: path}
	if err := archiver.Archive(history); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, prior) {
		t.Error("prior content truncated or rewritten")
	}

	separator := strings.Repeat("*", 80)
	if got := strings.Count(content, separator); got != 1 {
		t.Errorf("separator count = %d, want 1", got)
	}

	appended := content[len(prior):]
	if !strings.HasPrefix(appended, separator+"\n\n") {
		t.Error("appended block does not start with the separator line")
	}
	for _, fragment := range []string{
		"--- User " + strings.Repeat("-", 65),
		"first question",
		"--- Termute " + strings.Repeat("-", 62),
		"first answer",
		"second question",
		"second answer\nwith two lines",
	} {
		if !strings.Contains(appended, fragment) {
			t.Errorf("appended block missing %q", fragment)
		}
	}
	if !strings.HasSuffix(appended, "\n\n\n") {
		t.Error("conversation block missing trailing blank line")
	}
}

func TestArchiveVariantLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")

	entry := entryWithResponse("question", "first")
	entry.AddVariant()
	entry.SetLatest("second")

	archiver := &Archiver{Path: path}
	if err := archiver.Archive([]*model.PromptEntry{entry}); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "--- Termute 1/2 ") {
		t.Error("missing 1/2 variant divider")
	}
	if !strings.Contains(content, "--- Termute 2/2 ") {
		t.Error("missing 2/2 variant divider")
	}
}

func TestArchiveConsecutiveConversations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	archiver := &Archiver{Path: path}

	first := []*model.PromptEntry{entryWithResponse("one", "1")}
	second := []*model.PromptEntry{entryWithResponse("two", "2")}

	if err := archiver.Archive(first); err != nil {
		t.Fatalf("first Archive() error = %v", err)
	}
	if err := archiver.Archive(second); err != nil {
		t.Fatalf("second Archive() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	content := string(data)

	if got := strings.Count(content, strings.Repeat("*", 80)); got != 2 {
		t.Errorf("separator count = %d, want 2", got)
	}
	if strings.Index(content, "one") > strings.Index(content, "two") {
		t.Error("conversations archived out of order")
	}
}

func TestArchiveUnwritablePath(t *testing.T) {
	archiver := &Archiver{Path: filepath.Join(t.TempDir(), "missing", "chat.log")}

	err := archiver.Archive([]*model.PromptEntry{entryWithResponse("q", "a")})
	if err == nil {
		t.Error("Archive() succeeded with unwritable path")
	}
}
