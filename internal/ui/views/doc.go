// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package views contains the three screens of the mirror TUI.

  - Dashboard: the persona list with usage statistics; entry point for
    creating, opening, editing, and deleting personas.
  - Editor: the persona form, including the sample inputs and the style
    extraction flow with its spinner and blocking failure alert.
  - Chat: the themed transcript, input line, and pending-reply state for
    the active conversation session.

Each view is a self-contained Bubble Tea model. Navigation between views
is requested by emitting one of the Show*Msg messages defined in
messages.go; the root application model in the parent package owns the
view state machine and performs the switch.
*/
package views
