// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"github.com/mirrorlab/mirror-tui/internal/gemini"
	"github.com/mirrorlab/mirror-tui/internal/model"
)

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// ShowDashboardMsg requests a switch to the dashboard view.
type ShowDashboardMsg struct{}

// ShowEditorMsg requests a switch to the editor view. A nil Persona opens
// the editor for a new persona.
type ShowEditorMsg struct {
	Persona *model.Persona
}

// ShowChatMsg requests a switch to the chat view for a persona.
type ShowChatMsg struct {
	PersonaID string
}

// PersonaDeletedMsg announces a confirmed deletion so the app root can
// drop dependent state (usage history, stats).
type PersonaDeletedMsg struct {
	PersonaID string
}

// =============================================================================
// EXTRACTION MESSAGES
// =============================================================================

// ExtractResultMsg carries the outcome of a style extraction back into the
// editor. Exactly one of Partial and Err is set.
type ExtractResultMsg struct {
	PersonaID string
	Partial   *model.StyleProfilePartial
	Usage     *gemini.UsageMetadata
	Duration  int64 // milliseconds
	Err       error
}
