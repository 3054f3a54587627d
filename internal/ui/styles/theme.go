// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mirrorlab/mirror-tui/internal/model"
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// DASHBOARD STYLES
	// ==========================================================================

	PersonaList         lipgloss.Style
	PersonaItem         lipgloss.Style
	PersonaItemSelected lipgloss.Style
	PersonaName         lipgloss.Style
	PersonaMeta         lipgloss.Style
	StatsBar            lipgloss.Style
	StatsLabel          lipgloss.Style
	StatsValue          lipgloss.Style

	// ==========================================================================
	// EDITOR STYLES
	// ==========================================================================

	FieldLabel        lipgloss.Style
	FieldLabelFocused lipgloss.Style
	FieldValue        lipgloss.Style
	ThemeSwatch       lipgloss.Style
	ExtractingText    lipgloss.Style

	// ==========================================================================
	// CHAT STYLES
	// ==========================================================================

	PartnerBubble lipgloss.Style
	Timestamp     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// ALERT AND CONFIRM STYLES
	// ==========================================================================

	AlertBox     lipgloss.Style
	AlertTitle   lipgloss.Style
	AlertMessage lipgloss.Style
	ConfirmBox   lipgloss.Style

	// ==========================================================================
	// SPINNER STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Dashboard
	t.PersonaList = lipgloss.NewStyle().
		Padding(0, 1)

	t.PersonaItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.PersonaItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Violet).
		Bold(true).
		Padding(0, 1)

	t.PersonaName = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.PersonaMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatsBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatsLabel = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatsValue = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	// Editor
	t.FieldLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FieldLabelFocused = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.FieldValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ThemeSwatch = lipgloss.NewStyle().
		Padding(0, 1)

	t.ExtractingText = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Chat
	t.PartnerBubble = lipgloss.NewStyle().
		Foreground(PartnerBubbleFg).
		Background(PartnerBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(PartnerBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Alerts
	t.AlertBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 3)

	t.AlertTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.AlertMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(1, 3)

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)
}

// =============================================================================
// PER-PERSONA CHAT STYLES
// =============================================================================

// PersonaBubble builds the persona-side message bubble from a chat theme.
// Built per render because the active persona's theme can change at runtime.
func (t *Theme) PersonaBubble(ct model.ChatTheme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ct.Text)).
		Background(lipgloss.Color(ct.Bubble)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ct.Accent)).
		Padding(0, 2).
		MarginRight(4)
}

// PersonaAccent builds an accent text style from a chat theme.
func (t *Theme) PersonaAccent(ct model.ChatTheme) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ct.Accent)).
		Bold(true)
}
