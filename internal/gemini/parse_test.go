// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"errors"
	"testing"

	"github.com/mirrorlab/mirror-tui/internal/model"
)

// =============================================================================
// JSON EXTRACTION TESTS
// =============================================================================

func TestExtractJSON_Plain(t *testing.T) {
	raw, ok := ExtractJSON(`{"tone":"dry"}`)
	if !ok {
		t.Fatal("Expected direct parse to succeed")
	}
	if string(raw) != `{"tone":"dry"}` {
		t.Errorf("raw = %s", raw)
	}
}

func TestExtractJSON_MarkdownFences(t *testing.T) {
	input := "```json\n{\"tone\":\"dry\"}\n```"
	raw, ok := ExtractJSON(input)
	if !ok {
		t.Fatal("Expected fenced parse to succeed")
	}
	if string(raw) != `{"tone":"dry"}` {
		t.Errorf("raw = %s", raw)
	}
}

func TestExtractJSON_BraceScanFallback(t *testing.T) {
	input := `Sure! Here is the profile you asked for: {"tone":"dry","punctuation":"none"} hope that helps`
	raw, ok := ExtractJSON(input)
	if !ok {
		t.Fatal("Expected brace-scan fallback to succeed")
	}
	if string(raw) != `{"tone":"dry","punctuation":"none"}` {
		t.Errorf("raw = %s", raw)
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	for _, input := range []string{"", "plain prose, no braces", "{broken", "[1,2,3]"} {
		if _, ok := ExtractJSON(input); ok {
			t.Errorf("ExtractJSON(%q) should fail", input)
		}
	}
}

// =============================================================================
// PROFILE DECODING TESTS
// =============================================================================

func TestDecodeStylePartial_Full(t *testing.T) {
	input := `{
		"languageMix": "casual English",
		"sentenceStructure": "short bursts",
		"slangAndWords": ["lol", "fr"],
		"emojiUsage": {"types": ["💀"], "frequency": "High"},
		"tone": "sarcastic",
		"punctuation": "lowercase only"
	}`

	partial, err := decodeStylePartial(input)
	if err != nil {
		t.Fatalf("decodeStylePartial failed: %v", err)
	}
	if *partial.Tone != "sarcastic" {
		t.Errorf("Tone = %q", *partial.Tone)
	}
	if partial.EmojiUsage.Frequency != model.FrequencyHigh {
		t.Errorf("Frequency = %q", partial.EmojiUsage.Frequency)
	}
	if len(partial.SlangAndWords) != 2 {
		t.Errorf("SlangAndWords = %v", partial.SlangAndWords)
	}
}

func TestDecodeStylePartial_NormalizesFrequency(t *testing.T) {
	input := `{"tone":"flat","emojiUsage":{"types":null,"frequency":"Constantly"}}`

	partial, err := decodeStylePartial(input)
	if err != nil {
		t.Fatalf("decodeStylePartial failed: %v", err)
	}
	if partial.EmojiUsage.Frequency != model.FrequencyRare {
		t.Errorf("Frequency = %q, want Rare", partial.EmojiUsage.Frequency)
	}
	if partial.EmojiUsage.Types == nil {
		t.Error("Types must be repaired to an empty slice")
	}
}

func TestDecodeStylePartial_EmptyObject(t *testing.T) {
	_, err := decodeStylePartial(`{}`)
	if !errors.Is(err, ErrBadProfile) {
		t.Errorf("err = %v, want ErrBadProfile", err)
	}
}

func TestDecodeStylePartial_Garbage(t *testing.T) {
	_, err := decodeStylePartial("the model apologizes profusely")
	if !errors.Is(err, ErrBadProfile) {
		t.Errorf("err = %v, want ErrBadProfile", err)
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Kind != ErrKindUnparseable {
		t.Errorf("Expected unparseable extraction error, got %v", err)
	}
}
