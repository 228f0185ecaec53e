// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine owns the chat session: the ordered turn history, the busy
// flag, and the request lifecycle.
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/morganforge/termute/internal/directive"
	"github.com/morganforge/termute/internal/model"
	"github.com/morganforge/termute/internal/stream"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrBusy is returned while a response is still streaming. It is a user-facing
// guard, not a fault.
var ErrBusy = errors.New("still thinking, please wait")

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// Client is the model-provider streaming contract. The callback receives text
// fragments of arbitrary granularity, in arrival order.
type Client interface {
	Stream(ctx context.Context, req model.Request, callback func(fragment string)) error
}

// Archiver persists a finished conversation. Implemented by the transcript
// package.
type Archiver interface {
	Archive(history []*model.PromptEntry) error
}

// Composer expands directives in a raw prompt. Implemented by the directive
// package.
type Composer interface {
	Compose(ctx context.Context, raw string) (directive.Composition, error)
}

// =============================================================================
// ENGINE
// =============================================================================

// Options configures a new Engine.
type Options struct {
	Composer Composer
	Client   Client

	// Archiver receives the history on Clear. Optional; without one,
	// clearing just discards the history.
	Archiver Archiver

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Engine owns the session state. All exported methods are safe to call from
// the UI goroutine; the streaming worker synchronizes through the same mutex.
type Engine struct {
	mu      sync.Mutex
	history []*model.PromptEntry
	busy    bool

	composer Composer
	client   Client
	archiver Archiver
	logger   *zap.Logger
	updates  *updateQueue
}

// New creates an engine with an empty history.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		composer: opts.Composer,
		client:   opts.Client,
		archiver: opts.Archiver,
		logger:   logger,
		updates:  newUpdateQueue(),
	}
}

// Updates returns the display update channel. Exactly one consumer should
// range over it; updates arrive in the order the worker produced them.
func (e *Engine) Updates() <-chan Update {
	return e.updates.out
}

// Close shuts down the update queue. Pending updates are still delivered
// before the channel closes. Call only after any in-flight stream finished.
func (e *Engine) Close() {
	e.updates.close()
}

// Busy reports whether a request is in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Snapshot returns a deep copy of the history and the busy flag, safe to
// render while the worker keeps streaming into the live entries.
func (e *Engine) Snapshot() ([]*model.PromptEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]*model.PromptEntry, len(e.history))
	for i, entry := range e.history {
		history[i] = entry.Clone()
	}
	return history, e.busy
}

// =============================================================================
// OPERATIONS
// =============================================================================

// StartTurn composes the raw prompt, appends a new turn, and dispatches the
// streaming request. It returns immediately once the worker is started.
//
// A whitespace-only prompt is silently discarded. Composition errors abort
// before any history mutation. Returns ErrBusy while a stream is in flight.
func (e *Engine) StartTurn(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	e.mu.Unlock()

	// Providers run synchronously on the calling goroutine, before dispatch.
	composition, err := e.composer.Compose(context.Background(), raw)
	if err != nil {
		e.logger.Warn("composition failed", zap.Error(err))
		return err
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	entry := model.NewPromptEntry(raw, composition.Prompt, composition.System)
	e.history = append(e.history, entry)
	e.busy = true
	req := model.BuildRequest(e.history, true)
	e.mu.Unlock()

	e.logger.Debug("turn dispatched",
		zap.String("entry_id", entry.ID),
		zap.Int("messages", len(req.Messages)),
		zap.Bool("has_system", req.System != ""))

	e.updates.push(TurnStarted{})
	go e.run(entry, req)
	return nil
}

// RegenerateLast streams a fresh response variant for the last turn, reusing
// its stored composed prompt and system instruction. No-op on empty history.
func (e *Engine) RegenerateLast() error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	if len(e.history) == 0 {
		e.mu.Unlock()
		return nil
	}
	entry := e.history[len(e.history)-1]
	entry.AddVariant()
	e.busy = true
	req := model.BuildRequest(e.history, true)
	e.mu.Unlock()

	e.logger.Debug("regeneration dispatched",
		zap.String("entry_id", entry.ID),
		zap.Int("variant", entry.VariantCount()))

	e.updates.push(TurnStarted{})
	go e.run(entry, req)
	return nil
}

// Clear archives the history and resets it. The history is reset even when
// archiving fails; the write error is returned for display.
func (e *Engine) Clear() error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	history := e.history
	e.history = nil
	e.mu.Unlock()

	if len(history) == 0 || e.archiver == nil {
		return nil
	}
	if err := e.archiver.Archive(history); err != nil {
		e.logger.Error("archive write failed", zap.Error(err))
		return err
	}
	e.logger.Debug("conversation archived", zap.Int("turns", len(history)))
	return nil
}

// =============================================================================
// STREAMING WORKER
// =============================================================================

// run executes one streaming request to completion or failure. No
// cancellation is supported mid-stream.
func (e *Engine) run(entry *model.PromptEntry, req model.Request) {
	reassembler := stream.NewReassembler()

	streamErr := e.client.Stream(context.Background(), req, func(fragment string) {
		e.mu.Lock()
		entry.AppendToLatest(fragment)
		e.mu.Unlock()

		if lines := reassembler.Feed(fragment); len(lines) > 0 {
			e.updates.push(AppendLines{Lines: lines, StillThinking: true})
		}
	})

	// Flush the trailing partial line and settle the stored response on the
	// reassembler's byte-identical accumulation, success or failure.
	final := reassembler.Flush()
	e.updates.push(AppendLines{Lines: []string{final}, StillThinking: false})

	e.mu.Lock()
	entry.SetLatest(reassembler.Accumulated())
	e.busy = false
	e.mu.Unlock()

	if streamErr != nil {
		e.logger.Warn("stream failed",
			zap.String("entry_id", entry.ID),
			zap.Error(streamErr))
		e.updates.push(TurnFailed{Err: streamErr})
		return
	}

	e.logger.Debug("stream completed", zap.String("entry_id", entry.ID))
	e.updates.push(TurnCompleted{})
}
