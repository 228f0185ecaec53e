// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine owns the chat session: the ordered turn history, the busy
// flag, and the request lifecycle.
//
// Exactly one streaming request is in flight at a time, enforced by the busy
// flag. The network call and line reassembly run on a background worker; all
// display updates the worker produces are delivered over an unbounded FIFO
// queue consumed by the single UI loop, never applied directly from the
// worker.
//
// # Key Types
//
//   - Engine: session owner with StartTurn, RegenerateLast, Clear
//   - Update: display event delivered over Updates()
//   - Client: the model-provider streaming contract
//
// # Lifecycle
//
//	eng := engine.New(engine.Options{...})
//	defer eng.Close()
//
//	go func() {
//	    for update := range eng.Updates() {
//	        // apply to the display, in order
//	    }
//	}()
//
//	err := eng.StartTurn("explain this\n@buffer")
package engine
