// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the mirror TUI.

The package defines the application chrome palette and the composed Lip Gloss
styles used by the dashboard, editor, and chat views. All chrome colors use
AdaptiveColor for automatic light/dark terminal detection.

The persona side of the chat transcript is styled per persona: each persona
carries a chat theme from the registry in the model package, and
Theme.PersonaBubble builds the bubble style from that theme's accent, bubble,
and text colors at render time. The partner side keeps a fixed neutral look
so persona themes stay legible against it.

Terminal capability (color profile, dark background) is detected once at
Theme construction via termenv.
*/
package styles
