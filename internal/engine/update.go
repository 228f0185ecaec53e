// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine owns the chat session: the ordered turn history, the busy
// flag, and the request lifecycle.
package engine

// =============================================================================
// DISPLAY UPDATES
// =============================================================================

// Update is a display event produced by the engine. The UI consumes updates
// from Updates() one at a time, in the order they were produced.
type Update interface {
	isUpdate()
}

// TurnStarted is emitted after a turn has been appended to history and its
// request dispatched. The display should re-render the full transcript.
type TurnStarted struct{}

// AppendLines carries complete lines finished by the stream, ready to append
// before the thinking marker.
type AppendLines struct {
	Lines []string

	// StillThinking is false on the final flush of a stream.
	StillThinking bool
}

// TurnCompleted is emitted when a stream finishes successfully and the
// response has been stored in history.
type TurnCompleted struct{}

// TurnFailed is emitted when a stream fails. Partial output already appended
// is retained in history.
type TurnFailed struct {
	Err error
}

func (TurnStarted) isUpdate()   {}
func (AppendLines) isUpdate()   {}
func (TurnCompleted) isUpdate() {}
func (TurnFailed) isUpdate()    {}

// =============================================================================
// UNBOUNDED FIFO QUEUE
// =============================================================================

// updateQueue decouples the streaming worker from the UI consumer. Pushes
// never block; delivery order is strictly FIFO.
type updateQueue struct {
	in  chan Update
	out chan Update
}

func newUpdateQueue() *updateQueue {
	q := &updateQueue{
		in:  make(chan Update),
		out: make(chan Update),
	}
	go q.pump()
	return q
}

// pump buffers pending updates so producers never block on a slow consumer.
func (q *updateQueue) pump() {
	var buffer []Update

	for {
		var out chan Update
		var next Update
		if len(buffer) > 0 {
			out = q.out
			next = buffer[0]
		}

		select {
		case update, ok := <-q.in:
			if !ok {
				for _, pending := range buffer {
					q.out <- pending
				}
				close(q.out)
				return
			}
			buffer = append(buffer, update)
		case out <- next:
			buffer = buffer[1:]
		}
	}
}

func (q *updateQueue) push(update Update) {
	q.in <- update
}

func (q *updateQueue) close() {
	close(q.in)
}
