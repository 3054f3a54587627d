// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// =============================================================================
// PERSONA TESTS
// =============================================================================

func TestNewPersona_Defaults(t *testing.T) {
	p := NewPersona()

	if p.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if p.Name != "New Identity" {
		t.Errorf("Name = %q, want %q", p.Name, "New Identity")
	}
	if p.ThemeID != ThemeDefault {
		t.Errorf("ThemeID = %q, want %q", p.ThemeID, ThemeDefault)
	}
	if len(p.History) != 0 {
		t.Errorf("History length = %d, want 0", len(p.History))
	}
	if p.Style.EmojiUsage.Frequency != FrequencyRare {
		t.Errorf("Frequency = %q, want %q", p.Style.EmojiUsage.Frequency, FrequencyRare)
	}
	if p.Style.SlangAndWords == nil || p.Style.EmojiUsage.Types == nil {
		t.Error("Style sequences should be empty, not nil")
	}
	if p.Style.LastAnalysisDate == 0 {
		t.Error("LastAnalysisDate should be set at creation")
	}
}

func TestNewPersona_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p := NewPersona()
		if seen[p.ID] {
			t.Fatalf("Duplicate persona ID %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestPersona_Normalize(t *testing.T) {
	p := &Persona{ThemeID: "does-not-exist"}
	p.Normalize()

	if p.ID == "" {
		t.Error("Normalize should assign an ID")
	}
	if p.ThemeID != ThemeDefault {
		t.Errorf("ThemeID = %q, want %q", p.ThemeID, ThemeDefault)
	}
	if p.History == nil {
		t.Error("History should not be nil after Normalize")
	}
	if p.Style.EmojiUsage.Frequency != FrequencyRare {
		t.Errorf("Frequency = %q, want %q", p.Style.EmojiUsage.Frequency, FrequencyRare)
	}
}

func TestPersona_Clone_Independent(t *testing.T) {
	p := NewPersona()
	p.History = append(p.History, NewIncomingMessage("hello"))
	p.Style.SlangAndWords = []string{"lol"}

	c := p.Clone()
	c.History[0].Text = "changed"
	c.Style.SlangAndWords[0] = "nah"

	if p.History[0].Text != "hello" {
		t.Error("Clone should not share history backing array")
	}
	if p.Style.SlangAndWords[0] != "lol" {
		t.Error("Clone should not share slang backing array")
	}
}

// =============================================================================
// CONTEXT WINDOW TESTS
// =============================================================================

func TestContextWindow_Labels(t *testing.T) {
	p := NewPersona()
	p.Name = "Alex"
	p.History = []ChatMessage{
		NewIncomingMessage("hey"),
		NewGeneratedMessage("yo"),
	}

	window := p.ContextWindow()
	if len(window) != 2 {
		t.Fatalf("Window length = %d, want 2", len(window))
	}
	if window[0] != "Partner: hey" {
		t.Errorf("window[0] = %q, want %q", window[0], "Partner: hey")
	}
	if window[1] != "Alex: yo" {
		t.Errorf("window[1] = %q, want %q", window[1], "Alex: yo")
	}
}

func TestContextWindow_BoundedToLastTen(t *testing.T) {
	p := NewPersona()
	for i := 0; i < 25; i++ {
		p.History = append(p.History, NewIncomingMessage(string(rune('a'+i))))
	}

	window := p.ContextWindow()
	if len(window) != MaxContextMessages {
		t.Fatalf("Window length = %d, want %d", len(window), MaxContextMessages)
	}
	// Chronological order: the last element must be the newest message.
	if !strings.HasSuffix(window[len(window)-1], string(rune('a'+24))) {
		t.Errorf("Last window entry = %q, want newest message", window[len(window)-1])
	}
	if !strings.HasSuffix(window[0], string(rune('a'+15))) {
		t.Errorf("First window entry = %q, want 10th-from-last message", window[0])
	}
}

func TestContextWindow_IncludesErrorMessages(t *testing.T) {
	// Error placeholders are included verbatim, matching the shipped behavior.
	p := NewPersona()
	p.Name = "Alex"
	p.History = []ChatMessage{NewErrorMessage("static...")}

	window := p.ContextWindow()
	if len(window) != 1 || window[0] != "Alex: static..." {
		t.Errorf("window = %v, want error text labeled as persona", window)
	}
}

// =============================================================================
// STYLE PROFILE TESTS
// =============================================================================

func TestNormalizeFrequency(t *testing.T) {
	tests := []struct {
		in   string
		want Frequency
	}{
		{"Rare", FrequencyRare},
		{"Moderate", FrequencyModerate},
		{"High", FrequencyHigh},
		{"", FrequencyRare},
		{"sometimes", FrequencyRare},
	}
	for _, tt := range tests {
		if got := NormalizeFrequency(tt.in); got != tt.want {
			t.Errorf("NormalizeFrequency(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStyleProfilePartial_Merge(t *testing.T) {
	profile := NewStyleProfile()
	profile.Tone = "flat"
	profile.Punctuation = "standard"
	before := profile.LastAnalysisDate

	tone := "sarcastic"
	partial := &StyleProfilePartial{
		Tone:          &tone,
		SlangAndWords: []string{"lol", "fr"},
		EmojiUsage:    &EmojiUsage{Types: []string{"💀"}, Frequency: FrequencyHigh},
	}
	partial.Merge(&profile)

	if profile.Tone != "sarcastic" {
		t.Errorf("Tone = %q, want %q", profile.Tone, "sarcastic")
	}
	if profile.Punctuation != "standard" {
		t.Error("Merge must preserve dimensions absent from the partial")
	}
	if len(profile.SlangAndWords) != 2 {
		t.Errorf("SlangAndWords = %v, want 2 entries", profile.SlangAndWords)
	}
	if profile.EmojiUsage.Frequency != FrequencyHigh {
		t.Errorf("Frequency = %q, want High", profile.EmojiUsage.Frequency)
	}
	if profile.LastAnalysisDate < before {
		t.Error("Merge must stamp LastAnalysisDate")
	}
}

func TestStyleProfilePartial_Empty(t *testing.T) {
	p := &StyleProfilePartial{}
	if !p.Empty() {
		t.Error("Zero partial should report Empty")
	}
	tone := "dry"
	p.Tone = &tone
	if p.Empty() {
		t.Error("Partial with a dimension should not report Empty")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewErrorMessage_IsOutgoing(t *testing.T) {
	m := NewErrorMessage("oops")
	if m.Role != RoleOutgoing {
		t.Errorf("Role = %q, want outgoing", m.Role)
	}
	if !m.IsError || m.IsAiGenerated {
		t.Error("Error message must set IsError and not IsAiGenerated")
	}
}

func TestChatMessage_JSONShape(t *testing.T) {
	m := NewGeneratedMessage("hi")
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	for _, key := range []string{`"id"`, `"role":"outgoing"`, `"text":"hi"`, `"timestamp"`, `"isAiGenerated":true`} {
		if !strings.Contains(s, key) {
			t.Errorf("JSON %s missing %s", s, key)
		}
	}
	if strings.Contains(s, "isError") {
		t.Error("isError should be omitted when false")
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestThemeByID_Fallback(t *testing.T) {
	if got := ThemeByID("nope"); got.ID != ThemeDefault {
		t.Errorf("ThemeByID fallback = %q, want default", got.ID)
	}
	if got := ThemeByID(ThemeCyberpunk); got.Name != "Cyberpunk" {
		t.Errorf("Theme name = %q, want Cyberpunk", got.Name)
	}
}

func TestThemeOrder_CoversRegistry(t *testing.T) {
	if len(ThemeOrder) != len(Themes) {
		t.Fatalf("ThemeOrder has %d entries, registry has %d", len(ThemeOrder), len(Themes))
	}
	for _, id := range ThemeOrder {
		if _, ok := Themes[id]; !ok {
			t.Errorf("ThemeOrder entry %q missing from registry", id)
		}
	}
}
