// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for personas and their transcripts.
//
// This package defines the core domain types used throughout the application
// for representing personas, captured style profiles, and chat messages.
//
// # Key Types
//
//   - Persona: A saved identity with a style profile, theme, avatar, and transcript
//   - StyleProfile: Structured description of a target author's communication patterns
//   - ChatMessage: Single transcript message with role, text, and timestamp
//   - Role: Message direction enumeration (incoming, outgoing)
//
// # Usage
//
// Create a new persona:
//
//	p := model.NewPersona()
//	p.History = append(p.History, model.NewIncomingMessage("hey you up?"))
//
// Look up a chat theme:
//
//	theme := model.ThemeByID(p.ThemeID)
//	fmt.Printf("Theme: %s\n", theme.Name)
package model
