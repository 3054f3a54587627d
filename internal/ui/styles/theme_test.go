// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/mirrorlab/mirror-tui/internal/model"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Verify styles are initialized by rendering a test string
	if theme.App.Render("test") == "" {
		t.Error("NewTheme() should initialize App style")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme()

	// An uninitialized style would render the input unchanged; all of these
	// should at least pass the text through.
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"PersonaItem", theme.PersonaItem},
		{"PersonaItemSelected", theme.PersonaItemSelected},
		{"PartnerBubble", theme.PartnerBubble},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"AlertBox", theme.AlertBox},
		{"ConfirmBox", theme.ConfirmBox},
	}

	for _, s := range styles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

// =============================================================================
// PERSONA BUBBLE TESTS
// =============================================================================

func TestPersonaBubble(t *testing.T) {
	theme := NewTheme()

	for id, ct := range model.Themes {
		bubble := theme.PersonaBubble(ct)
		if bubble.Render("hello") == "" {
			t.Errorf("PersonaBubble(%s) produced empty render", id)
		}
	}
}

func TestPersonaBubble_UsesThemeColors(t *testing.T) {
	theme := NewTheme()
	ct := model.ThemeByID(model.ThemeCyberpunk)

	bubble := theme.PersonaBubble(ct)
	if got := bubble.GetBackground(); got != lipgloss.Color(ct.Bubble) {
		t.Errorf("background = %v, want %v", got, ct.Bubble)
	}
	if got := bubble.GetForeground(); got != lipgloss.Color(ct.Text) {
		t.Errorf("foreground = %v, want %v", got, ct.Text)
	}
}
