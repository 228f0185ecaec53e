// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/termute/internal/directive"
	"github.com/morganforge/termute/internal/model"
)

// fakeClient replays scripted fragments for each call, in call order.
type fakeClient struct {
	mu       sync.Mutex
	scripts  [][]string
	errs     []error
	requests []model.Request
	calls    int

	// release, when set, blocks each stream until signaled.
	release chan struct{}
}

func (c *fakeClient) Stream(ctx context.Context, req model.Request, callback func(string)) error {
	c.mu.Lock()
	call := c.calls
	c.calls++
	c.requests = append(c.requests, req)
	release := c.release
	c.mu.Unlock()

	if release != nil {
		<-release
	}

	var fragments []string
	if call < len(c.scripts) {
		fragments = c.scripts[call]
	}
	for _, fragment := range fragments {
		callback(fragment)
	}

	if call < len(c.errs) {
		return c.errs[call]
	}
	return nil
}

// passthroughComposer composes without any directive expansion.
type passthroughComposer struct{}

func (passthroughComposer) Compose(_ context.Context, raw string) (directive.Composition, error) {
	return directive.Composition{Prompt: raw}, nil
}

// failingComposer always fails.
type failingComposer struct{ err error }

func (c failingComposer) Compose(_ context.Context, _ string) (directive.Composition, error) {
	return directive.Composition{}, c.err
}

// recordingArchiver captures archived histories.
type recordingArchiver struct {
	histories [][]*model.PromptEntry
	err       error
}

func (a *recordingArchiver) Archive(history []*model.PromptEntry) error {
	a.histories = append(a.histories, history)
	return a.err
}

func newTestEngine(t *testing.T, client Client) *Engine {
	t.Helper()
	eng := New(Options{
		Composer: passthroughComposer{},
		Client:   client,
	})
	t.Cleanup(eng.Close)
	return eng
}

// drainUntilSettled consumes updates until the turn completes or fails.
func drainUntilSettled(t *testing.T, eng *Engine) []Update {
	t.Helper()

	var updates []Update
	timeout := time.After(5 * time.Second)
	for {
		select {
		case update := <-eng.Updates():
			updates = append(updates, update)
			switch update.(type) {
			case TurnCompleted, TurnFailed:
				return updates
			}
		case <-timeout:
			t.Fatalf("timed out waiting for turn to settle; got %d updates", len(updates))
		}
	}
}

func TestStartTurnEmptyPromptIsNoOp(t *testing.T) {
	eng := newTestEngine(t, &fakeClient{})

	require.NoError(t, eng.StartTurn("   \n\t  "))

	history, busy := eng.Snapshot()
	assert.Empty(t, history)
	assert.False(t, busy)
}

func TestStartTurnComposeErrorLeavesSessionUntouched(t *testing.T) {
	composeErr := errors.New("unknown directive")
	eng := New(Options{
		Composer: failingComposer{err: composeErr},
		Client:   &fakeClient{},
	})
	t.Cleanup(eng.Close)

	err := eng.StartTurn("@bogus")
	require.ErrorIs(t, err, composeErr)

	history, busy := eng.Snapshot()
	assert.Empty(t, history)
	assert.False(t, busy)
}

func TestStartTurnStreamsIntoHistory(t *testing.T) {
	client := &fakeClient{scripts: [][]string{{"Hello ", "wor", "ld\nsecond line"}}}
	eng := newTestEngine(t, client)

	require.NoError(t, eng.StartTurn("say hello"))
	updates := drainUntilSettled(t, eng)

	require.IsType(t, TurnStarted{}, updates[0])
	require.IsType(t, TurnCompleted{}, updates[len(updates)-1])

	var lines []string
	for _, update := range updates {
		if appended, ok := update.(AppendLines); ok {
			lines = append(lines, appended.Lines...)
		}
	}
	assert.Equal(t, []string{"Hello world", "second line"}, lines)

	history, busy := eng.Snapshot()
	assert.False(t, busy)
	require.Len(t, history, 1)
	assert.Equal(t, "say hello", history[0].RawText)
	assert.Equal(t, "Hello world\nsecond line", history[0].LatestResponse())
}

func TestStartTurnBusyGuard(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{
		scripts: [][]string{{"done"}},
		release: release,
	}
	eng := newTestEngine(t, client)

	require.NoError(t, eng.StartTurn("first"))

	assert.ErrorIs(t, eng.StartTurn("second"), ErrBusy)
	assert.ErrorIs(t, eng.RegenerateLast(), ErrBusy)
	assert.ErrorIs(t, eng.Clear(), ErrBusy)

	history, _ := eng.Snapshot()
	assert.Len(t, history, 1)

	close(release)
	drainUntilSettled(t, eng)
}

func TestRegenerateLastEmptyHistoryIsNoOp(t *testing.T) {
	eng := newTestEngine(t, &fakeClient{})

	require.NoError(t, eng.RegenerateLast())

	history, busy := eng.Snapshot()
	assert.Empty(t, history)
	assert.False(t, busy)
}

func TestRegenerateLastAddsVariant(t *testing.T) {
	client := &fakeClient{scripts: [][]string{{"first answer"}, {"second answer"}}}
	eng := newTestEngine(t, client)

	require.NoError(t, eng.StartTurn("question"))
	drainUntilSettled(t, eng)

	require.NoError(t, eng.RegenerateLast())
	drainUntilSettled(t, eng)

	history, busy := eng.Snapshot()
	assert.False(t, busy)
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].VariantCount())
	assert.Equal(t, []string{"first answer", "second answer"}, history[0].Responses)

	// The regeneration request reuses the stored prompt and excludes the
	// in-flight variant from the projection.
	require.Len(t, client.requests, 2)
	second := client.requests[1]
	require.Len(t, second.Messages, 1)
	assert.Equal(t, "question", second.Messages[0].Content)
}

func TestMidStreamErrorKeepsPartial(t *testing.T) {
	streamErr := errors.New("connection reset")
	client := &fakeClient{
		scripts: [][]string{{"partial out"}},
		errs:    []error{streamErr},
	}
	eng := newTestEngine(t, client)

	require.NoError(t, eng.StartTurn("question"))
	updates := drainUntilSettled(t, eng)

	failed, ok := updates[len(updates)-1].(TurnFailed)
	require.True(t, ok, "expected TurnFailed, got %T", updates[len(updates)-1])
	assert.ErrorIs(t, failed.Err, streamErr)

	history, busy := eng.Snapshot()
	assert.False(t, busy, "busy must clear after a failed stream")
	require.Len(t, history, 1)
	assert.Equal(t, "partial out", history[0].LatestResponse())

	// The session is usable again.
	require.NoError(t, eng.StartTurn("retry"))
	drainUntilSettled(t, eng)
}

func TestUpdatesArriveInOrder(t *testing.T) {
	client := &fakeClient{scripts: [][]string{{"a\n", "b\n", "c\n", "d"}}}
	eng := newTestEngine(t, client)

	require.NoError(t, eng.StartTurn("count"))
	updates := drainUntilSettled(t, eng)

	var lines []string
	for _, update := range updates {
		if appended, ok := update.(AppendLines); ok {
			lines = append(lines, appended.Lines...)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
}

func TestClearArchivesAndResets(t *testing.T) {
	archiver := &recordingArchiver{}
	client := &fakeClient{scripts: [][]string{{"answer"}}}
	eng := New(Options{
		Composer: passthroughComposer{},
		Client:   client,
		Archiver: archiver,
	})
	t.Cleanup(eng.Close)

	require.NoError(t, eng.StartTurn("question"))
	drainUntilSettled(t, eng)

	require.NoError(t, eng.Clear())

	history, busy := eng.Snapshot()
	assert.Empty(t, history)
	assert.False(t, busy)
	require.Len(t, archiver.histories, 1)
	assert.Len(t, archiver.histories[0], 1)
}

func TestClearEmptyHistorySkipsArchive(t *testing.T) {
	archiver := &recordingArchiver{}
	eng := New(Options{
		Composer: passthroughComposer{},
		Client:   &fakeClient{},
		Archiver: archiver,
	})
	t.Cleanup(eng.Close)

	require.NoError(t, eng.Clear())
	assert.Empty(t, archiver.histories)
}

func TestClearArchiveFailureStillResets(t *testing.T) {
	archiver := &recordingArchiver{err: errors.New("disk full")}
	client := &fakeClient{scripts: [][]string{{"answer"}}}
	eng := New(Options{
		Composer: passthroughComposer{},
		Client:   client,
		Archiver: archiver,
	})
	t.Cleanup(eng.Close)

	require.NoError(t, eng.StartTurn("question"))
	drainUntilSettled(t, eng)

	err := eng.Clear()
	require.Error(t, err)

	history, _ := eng.Snapshot()
	assert.Empty(t, history, "history resets even when the archive write fails")
}
