// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for personas and their transcripts.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the direction of a transcript message.
type Role string

const (
	// RoleIncoming is a message from the conversation partner.
	RoleIncoming Role = "incoming"
	// RoleOutgoing is a message spoken in the persona's voice.
	RoleOutgoing Role = "outgoing"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleIncoming || r == RoleOutgoing
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage represents a single message in a persona's transcript.
//
// Timestamps are Unix milliseconds to stay compatible with collections
// persisted by earlier builds.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`

	// IsAiGenerated marks replies produced by the mirror engine.
	IsAiGenerated bool `json:"isAiGenerated,omitempty"`

	// IsError marks the synthetic stand-in appended when generation fails.
	// Error messages are always outgoing.
	IsError bool `json:"isError,omitempty"`
}

// NewIncomingMessage creates a partner message with a fresh ID and timestamp.
func NewIncomingMessage(text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleIncoming,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewGeneratedMessage creates an outgoing message produced by the mirror engine.
func NewGeneratedMessage(text string) ChatMessage {
	return ChatMessage{
		ID:            uuid.NewString(),
		Role:          RoleOutgoing,
		Text:          text,
		Timestamp:     time.Now().UnixMilli(),
		IsAiGenerated: true,
	}
}

// NewErrorMessage creates the outgoing stand-in appended when generation fails.
func NewErrorMessage(text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleOutgoing,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		IsError:   true,
	}
}

// Time returns the message timestamp as a time.Time.
func (m ChatMessage) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}
