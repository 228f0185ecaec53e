// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"reflect"
	"testing"

	"github.com/morganforge/termute/internal/directive"
	"github.com/morganforge/termute/internal/engine"
	"github.com/morganforge/termute/internal/model"
	"github.com/morganforge/termute/internal/transcript"
)

type nullClient struct{}

func (nullClient) Stream(ctx context.Context, req model.Request, callback func(string)) error {
	return nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	eng := engine.New(engine.Options{
		Composer: directive.NewComposer(nil),
		Client:   nullClient{},
	})
	t.Cleanup(eng.Close)
	return New(Options{Engine: eng})
}

func TestNewShowsIntro(t *testing.T) {
	m := newTestModel(t)

	if !reflect.DeepEqual(m.Lines(), transcript.Intro) {
		t.Errorf("initial lines = %q, want intro", m.Lines())
	}
	if m.Mode() != ModeView {
		t.Errorf("initial mode = %v, want ModeView", m.Mode())
	}
}

func TestAppendLinesKeepsMarkerLast(t *testing.T) {
	m := newTestModel(t)
	m.lines = []string{"existing", transcript.ThinkingMarker}

	m = m.appendLines([]string{"new line one", "new line two"}, true)

	want := []string{"existing", "new line one", "new line two", transcript.ThinkingMarker}
	if !reflect.DeepEqual(m.lines, want) {
		t.Errorf("lines = %q, want %q", m.lines, want)
	}
}

func TestAppendLinesFinalFlushRemovesMarker(t *testing.T) {
	m := newTestModel(t)
	m.thinking = true
	m.lines = []string{"existing", transcript.ThinkingMarker}

	m = m.appendLines([]string{"last line"}, false)

	want := []string{"existing", "last line"}
	if !reflect.DeepEqual(m.lines, want) {
		t.Errorf("lines = %q, want %q", m.lines, want)
	}
	if m.thinking {
		t.Error("thinking still set after final flush")
	}
}

func TestAppendLinesWithoutMarker(t *testing.T) {
	// The first append of a stream arrives right after a full render that
	// already holds the marker; a plain transcript must still work.
	m := newTestModel(t)
	m.lines = []string{"existing"}

	m = m.appendLines([]string{"a"}, true)

	want := []string{"existing", "a", transcript.ThinkingMarker}
	if !reflect.DeepEqual(m.lines, want) {
		t.Errorf("lines = %q, want %q", m.lines, want)
	}
}

func TestApplyUpdateTurnFailedShowsError(t *testing.T) {
	m := newTestModel(t)

	m = m.applyUpdate(engine.TurnFailed{Err: context.DeadlineExceeded})

	if m.errText == "" {
		t.Error("error text not set after TurnFailed")
	}
	if m.thinking {
		t.Error("thinking still set after TurnFailed")
	}
}
