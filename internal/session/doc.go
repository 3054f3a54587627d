// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the conversation-turn state machine for one
// active persona.
//
// A session owns the transcript of the active persona and moves between two
// states: idle and awaiting-reply. Submitting a message appends the incoming
// turn and starts a generation; while a generation is outstanding further
// submissions are rejected. Success appends the generated reply, failure
// appends a fixed in-character stand-in. Every transcript mutation is pushed
// back to the persona store through a persist callback.
//
// All mutation happens under one mutex; the Bubble Tea event loop delivers
// generation results as messages, so the session never blocks the UI.
package session
