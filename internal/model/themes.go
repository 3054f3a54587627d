// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CHAT THEMES
// =============================================================================

// ThemeID identifies one of the fixed chat presentation themes.
type ThemeID string

const (
	ThemeDefault   ThemeID = "default"
	ThemeMessenger ThemeID = "messenger"
	ThemeInstagram ThemeID = "instagram"
	ThemeLove      ThemeID = "love"
	ThemeCyberpunk ThemeID = "cyberpunk"
	ThemeMidnight  ThemeID = "midnight"
	ThemeEmerald   ThemeID = "emerald"
	ThemeSunset    ThemeID = "sunset"
	ThemeGhost     ThemeID = "ghost"
)

// ChatTheme describes the presentation of one chat environment. Colors are
// hex strings consumed by the styling layer.
type ChatTheme struct {
	ID     ThemeID
	Name   string
	Accent string // accent / highlight color
	Bubble string // outgoing bubble background
	Text   string // outgoing bubble foreground
}

// Themes is the registry of fixed chat themes.
var Themes = map[ThemeID]ChatTheme{
	ThemeDefault:   {ID: ThemeDefault, Name: "Classic Noir", Accent: "#3b82f6", Bubble: "#2563eb", Text: "#ffffff"},
	ThemeMessenger: {ID: ThemeMessenger, Name: "Messenger", Accent: "#0084ff", Bubble: "#8b5cf6", Text: "#ffffff"},
	ThemeInstagram: {ID: ThemeInstagram, Name: "Instagram", Accent: "#e1306c", Bubble: "#9333ea", Text: "#ffffff"},
	ThemeLove:      {ID: ThemeLove, Name: "Love", Accent: "#f43f5e", Bubble: "#f43f5e", Text: "#ffffff"},
	ThemeCyberpunk: {ID: ThemeCyberpunk, Name: "Cyberpunk", Accent: "#facc15", Bubble: "#facc15", Text: "#000000"},
	ThemeMidnight:  {ID: ThemeMidnight, Name: "Midnight", Accent: "#1e293b", Bubble: "#1e293b", Text: "#f1f5f9"},
	ThemeEmerald:   {ID: ThemeEmerald, Name: "Emerald", Accent: "#10b981", Bubble: "#059669", Text: "#ffffff"},
	ThemeSunset:    {ID: ThemeSunset, Name: "Sunset", Accent: "#f59e0b", Bubble: "#f97316", Text: "#ffffff"},
	ThemeGhost:     {ID: ThemeGhost, Name: "Ghost", Accent: "#0f172a", Bubble: "#f1f5f9", Text: "#0f172a"},
}

// ThemeOrder is the display order for theme pickers.
var ThemeOrder = []ThemeID{
	ThemeDefault, ThemeMessenger, ThemeInstagram, ThemeLove, ThemeCyberpunk,
	ThemeMidnight, ThemeEmerald, ThemeSunset, ThemeGhost,
}

// ThemeByID resolves a theme ID, falling back to the default theme for
// unknown values.
func ThemeByID(id ThemeID) ChatTheme {
	if t, ok := Themes[id]; ok {
		return t
	}
	return Themes[ThemeDefault]
}
