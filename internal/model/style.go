// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// EMOJI FREQUENCY
// =============================================================================

// Frequency describes how often a target author uses emoji.
type Frequency string

const (
	FrequencyRare     Frequency = "Rare"
	FrequencyModerate Frequency = "Moderate"
	FrequencyHigh     Frequency = "High"
)

// NormalizeFrequency maps arbitrary input to a known frequency value.
// Unknown or empty values fall back to Rare.
func NormalizeFrequency(s string) Frequency {
	switch Frequency(s) {
	case FrequencyModerate:
		return FrequencyModerate
	case FrequencyHigh:
		return FrequencyHigh
	default:
		return FrequencyRare
	}
}

// =============================================================================
// STYLE PROFILE
// =============================================================================

// EmojiUsage captures a target author's emoji habits.
type EmojiUsage struct {
	// Types lists the habitual emoji themselves.
	Types []string `json:"types"`
	// Frequency is one of Rare, Moderate, High.
	Frequency Frequency `json:"frequency"`
}

// StyleProfile is the structured description of a target author's
// communication patterns, used to condition reply generation.
//
// Free-text dimensions may be empty but are always present: a persona owns a
// complete, if blank, style record from the moment it is created.
type StyleProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// The six extracted dimensions.
	LanguageMix       string     `json:"languageMix"`
	SentenceStructure string     `json:"sentenceStructure"`
	SlangAndWords     []string   `json:"slangAndWords"`
	EmojiUsage        EmojiUsage `json:"emojiUsage"`
	Tone              string     `json:"tone"`
	Punctuation       string     `json:"punctuation"`

	// LastAnalysisDate is set on every successful extraction or save,
	// in Unix milliseconds.
	LastAnalysisDate int64 `json:"lastAnalysisDate"`
}

// NewStyleProfile creates an empty style profile with default frequency.
func NewStyleProfile() StyleProfile {
	return StyleProfile{
		ID:               uuid.NewString(),
		Name:             "New Style",
		SlangAndWords:    []string{},
		EmojiUsage:       EmojiUsage{Types: []string{}, Frequency: FrequencyRare},
		LastAnalysisDate: time.Now().UnixMilli(),
	}
}

// Normalize repairs a profile loaded from storage: nil slices become empty
// and the frequency falls back to a known value.
func (p *StyleProfile) Normalize() {
	if p.SlangAndWords == nil {
		p.SlangAndWords = []string{}
	}
	if p.EmojiUsage.Types == nil {
		p.EmojiUsage.Types = []string{}
	}
	p.EmojiUsage.Frequency = NormalizeFrequency(string(p.EmojiUsage.Frequency))
}

// =============================================================================
// PARTIAL PROFILE (EXTRACTION RESULT)
// =============================================================================

// StyleProfilePartial is the result of a style extraction. Fields the remote
// capability did not return stay nil so a merge preserves existing values.
type StyleProfilePartial struct {
	LanguageMix       *string     `json:"languageMix,omitempty"`
	SentenceStructure *string     `json:"sentenceStructure,omitempty"`
	SlangAndWords     []string    `json:"slangAndWords,omitempty"`
	EmojiUsage        *EmojiUsage `json:"emojiUsage,omitempty"`
	Tone              *string     `json:"tone,omitempty"`
	Punctuation       *string     `json:"punctuation,omitempty"`
}

// Empty reports whether the partial carries no dimensions at all.
func (p *StyleProfilePartial) Empty() bool {
	return p.LanguageMix == nil && p.SentenceStructure == nil &&
		p.SlangAndWords == nil && p.EmojiUsage == nil &&
		p.Tone == nil && p.Punctuation == nil
}

// Merge applies the returned dimensions onto an existing profile and stamps
// the analysis date. Dimensions absent from the partial are preserved.
func (p *StyleProfilePartial) Merge(into *StyleProfile) {
	if p.LanguageMix != nil {
		into.LanguageMix = *p.LanguageMix
	}
	if p.SentenceStructure != nil {
		into.SentenceStructure = *p.SentenceStructure
	}
	if p.SlangAndWords != nil {
		into.SlangAndWords = p.SlangAndWords
	}
	if p.EmojiUsage != nil {
		into.EmojiUsage = *p.EmojiUsage
		into.Normalize()
	}
	if p.Tone != nil {
		into.Tone = *p.Tone
	}
	if p.Punctuation != nil {
		into.Punctuation = *p.Punctuation
	}
	into.LastAnalysisDate = time.Now().UnixMilli()
}
