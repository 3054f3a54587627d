// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// MaxContextMessages is the number of recent transcript messages supplied to
// reply generation for continuity.
const MaxContextMessages = 10

// PartnerLabel is the fixed speaker label for incoming turns in the
// generation context window.
const PartnerLabel = "Partner"

// =============================================================================
// PERSONA TYPE
// =============================================================================

// Persona is a saved identity: a style profile, theme, avatar, and the
// transcript of its simulated conversation. A persona exclusively owns its
// style profile and history; nothing is shared across personas.
type Persona struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// ProfileImage is an optional base64-encoded avatar.
	ProfileImage string `json:"profileImage,omitempty"`

	// ThemeID selects one of the fixed chat themes. Opaque to everything
	// except the presentation layer.
	ThemeID ThemeID `json:"themeId"`

	Style   StyleProfile  `json:"style"`
	History []ChatMessage `json:"history"`
}

// NewPersona creates a persona with a fresh ID, default name and theme, an
// empty style profile, and an empty transcript.
func NewPersona() *Persona {
	return &Persona{
		ID:      uuid.NewString(),
		Name:    "New Identity",
		ThemeID: ThemeDefault,
		Style:   NewStyleProfile(),
		History: []ChatMessage{},
	}
}

// Normalize repairs a persona loaded from storage.
func (p *Persona) Normalize() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.History == nil {
		p.History = []ChatMessage{}
	}
	if _, ok := Themes[p.ThemeID]; !ok {
		p.ThemeID = ThemeDefault
	}
	p.Style.Normalize()
}

// ContextWindow renders the last MaxContextMessages transcript messages in
// chronological order, each prefixed with its speaker label: the fixed
// partner token for incoming turns, the persona's name for outgoing ones.
func (p *Persona) ContextWindow() []string {
	msgs := p.History
	if len(msgs) > MaxContextMessages {
		msgs = msgs[len(msgs)-MaxContextMessages:]
	}

	window := make([]string, 0, len(msgs))
	for _, m := range msgs {
		label := p.Name
		if m.Role == RoleIncoming {
			label = PartnerLabel
		}
		window = append(window, label+": "+m.Text)
	}
	return window
}

// Preview returns the first incoming message, truncated for list display.
func (p *Persona) Preview() string {
	for _, m := range p.History {
		if m.Role == RoleIncoming && m.Text != "" {
			runes := []rune(strings.ReplaceAll(m.Text, "\n", " "))
			if len(runes) > 80 {
				return string(runes[:77]) + "..."
			}
			return string(runes)
		}
	}
	return ""
}

// MessageCount returns the number of transcript messages.
func (p *Persona) MessageCount() int {
	return len(p.History)
}

// Clone returns a deep copy of the persona. The store hands out clones so
// callers can mutate freely before committing an update.
func (p *Persona) Clone() *Persona {
	c := *p
	c.History = make([]ChatMessage, len(p.History))
	copy(c.History, p.History)
	c.Style.SlangAndWords = append([]string(nil), p.Style.SlangAndWords...)
	c.Style.EmojiUsage.Types = append([]string(nil), p.Style.EmojiUsage.Types...)
	return &c
}

// ExportJSON renders the persona as pretty-printed JSON.
func (p *Persona) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
