// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"encoding/json"
	"strings"

	"github.com/mirrorlab/mirror-tui/internal/model"
)

// =============================================================================
// DEFENSIVE JSON EXTRACTION
// =============================================================================

// ExtractJSON pulls a JSON object out of possibly noisy model output.
//
// Two explicit stages, tagged result:
//  1. strip markdown code fences and try the whole text;
//  2. on failure, take the first top-level brace-delimited substring and
//     try that.
//
// Returns the raw JSON and true, or nil and false when neither stage yields
// a parseable object.
func ExtractJSON(text string) ([]byte, bool) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	if isJSONObject(clean) {
		return []byte(clean), true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if isJSONObject(candidate) {
			return []byte(candidate), true
		}
	}

	return nil, false
}

// isJSONObject reports whether s parses as a JSON object.
func isJSONObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var probe map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &probe) == nil
}

// =============================================================================
// PROFILE DECODING
// =============================================================================

// decodeStylePartial parses extraction output into a partial style profile.
// The emoji frequency is normalized to a known value; a payload with no
// recognizable dimensions fails.
func decodeStylePartial(text string) (*model.StyleProfilePartial, error) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, ErrBadProfile
	}

	var partial model.StyleProfilePartial
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil, &ExtractionError{Kind: ErrKindUnparseable, Message: "profile JSON does not match expected shape", Cause: err}
	}
	if partial.Empty() {
		return nil, ErrBadProfile
	}

	if partial.EmojiUsage != nil {
		partial.EmojiUsage.Frequency = model.NormalizeFrequency(string(partial.EmojiUsage.Frequency))
		if partial.EmojiUsage.Types == nil {
			partial.EmojiUsage.Types = []string{}
		}
	}

	return &partial, nil
}
